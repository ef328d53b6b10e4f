package schema

import (
	"fmt"

	"redfin-harness/models"
)

// Sale is the minimum contract of a for-sale property record.
var Sale = Map(
	Req("address", Str()),
	Opt("description", Str()),
	Req("price", Str()),
	Opt("estimatedMonthlyPrice", Str()),
	Opt("propertyUrl", Str()),
	Opt("attachments", List(Str())),
	Opt("details", List(Str())),
	Opt("features", Map(
		Opt("Parking Information", List(Str())),
	)),
)

// rentUnit is a single leasable unit inside a unit type.
var rentUnit = Map(
	Opt("unitId", Str()),
	Opt("bedrooms", Int()),
	Opt("depositCurrency", Str()),
	Opt("fullBaths", Int()),
	Opt("halfBaths", Int()),
	Opt("name", Str()),
	Opt("rentCurrency", Str()),
	Opt("rentPrice", Int()),
	Opt("sqft", Str()),
	Opt("status", Str()),
)

var rentUnitType = Map(
	Opt("unitTypeId", Str()),
	Opt("units", List(rentUnit)),
	Opt("availableUnits", Int()),
	Opt("bedrooms", Int()),
	Opt("fullBaths", Int()),
	Opt("halfBaths", Int()),
	Opt("name", Str()),
	Opt("rentPriceMax", Int()),
	Opt("rentPriceMin", Int()),
	Opt("sqftMax", Int()),
	Opt("sqftMin", Int()),
	Opt("status", Str()),
	Opt("style", Str()),
	Opt("totalUnits", Int()),
)

// Rent is the minimum contract of a rental building record.
var Rent = Map(
	Req("rentalId", Str()),
	Opt("unitTypesByBedroom", List(Map(
		Opt("bedroomTitle", Str()),
		Opt("availableUnitTypes", List(rentUnitType)),
	))),
)

// labeled is the {value, level} wrapper search results use for display
// fields.
func labeled(value *Schema) *Schema {
	return Map(
		Opt("value", value),
		Opt("level", Int()),
	)
}

// Search is the minimum contract of a map search result entry.
var Search = Map(
	Opt("mlsId", Map(
		Opt("label", Str()),
		Opt("value", Str()),
	)),
	Opt("price", labeled(Int())),
	Opt("beds", Int()),
	Opt("baths", Int()),
	Opt("fullBaths", Int()),
	Opt("location", labeled(Str())),
	Opt("streetLine", labeled(Str())),
	Opt("countryCode", Str()),
	Opt("showAddressOnMap", Bool()),
	Opt("soldDate", Int()).OrNull(),
	Opt("searchStatus", Int()),
	Opt("propertyType", Int()),
	Opt("uiPropertyType", Int()),
	Opt("listingType", Int()),
	Req("propertyId", Int()),
	Opt("listingId", Int()),
	Opt("dataSourceId", Int()),
	Opt("marketId", Int()),
)

// ForMode returns the listing schema for a scrape mode.
func ForMode(mode models.Mode) (*Schema, error) {
	switch mode {
	case models.ModeSale:
		return Sale, nil
	case models.ModeRent:
		return Rent, nil
	case models.ModeSearch:
		return Search, nil
	}
	return nil, fmt.Errorf("schema: no schema for mode %q", mode)
}
