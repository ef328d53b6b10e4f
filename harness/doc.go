// Package harness runs the external Redfin scraper and checks what it
// returns.
//
// One run is one blocking scrape call followed by validation of every
// returned record against the listing schema for the scrape mode, plus a
// minimum batch size check. The two checks are independent: an empty batch
// has no shape violations but still fails its count.
//
// # Failures
//
// Failures surface as typed errors:
//
//   - *ShapeError: a record does not match the schema. Carries the rendered
//     record and the list of (path, expected, actual) mismatches.
//   - *CountError: the batch is smaller than the mode's minimum.
//   - *UpstreamError: the scrape call itself failed.
//
// BatchResult.Err joins the first two so callers can check each with
// errors.As.
//
// # Suites
//
// Cases can be declared in YAML:
//
//	name: redfin
//	cases:
//	  - name: properties_for_sale
//	    mode: sale
//	    urls:
//	      - https://www.redfin.com/WA/Seattle/506-E-Howell-St-98122/unit-W303/home/46456
//	  - name: search
//	    mode: search
//	    min_count: 2
//	    urls:
//	      - https://www.redfin.com/stingray/api/gis?al=1&market=seattle
//
// DefaultSuite holds the stock Seattle cases.
package harness
