package models

import (
	"fmt"
	"strings"
)

// Mode selects which scrape operation and record shape a batch targets.
type Mode string

const (
	ModeSale   Mode = "sale"
	ModeRent   Mode = "rent"
	ModeSearch Mode = "search"
)

// Modes lists every scrape mode in a stable order.
var Modes = []Mode{ModeSale, ModeRent, ModeSearch}

// ParseMode converts user input such as "Sale" or " rent " into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeSale, ModeRent, ModeSearch:
		return m, nil
	}
	return "", fmt.Errorf("unknown scrape mode %q (want sale, rent or search)", s)
}

// MinCount is the smallest batch a healthy scrape of this mode returns.
func (m Mode) MinCount() int {
	if m == ModeSearch {
		return 2
	}
	return 1
}

func (m Mode) String() string { return string(m) }

// Record is one scraped listing exactly as the scraper returned it: a
// for-sale property, a rental building or a search-result entry.
// Numbers decoded from JSON are json.Number so integers stay distinguishable
// from floats.
type Record = map[string]any

// Batch is everything one scrape call returned, in order. A well-behaved
// scraper only returns Records; any other element (null, a string, a number)
// is kept as decoded and fails validation as a record.
type Batch []any
