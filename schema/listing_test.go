package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redfin-harness/models"
)

const saleDoc = `{
	"address": "506 E Howell St #W303, Seattle, WA 98122",
	"description": "Top floor condo with city views.",
	"price": "$565,000",
	"estimatedMonthlyPrice": "$3,912",
	"propertyUrl": "https://www.redfin.com/WA/Seattle/506-E-Howell-St-98122/unit-W303/home/46456",
	"attachments": ["https://ssl.cdn-redfin.com/photo/1/bigphoto/001.jpg"],
	"details": ["2 beds", "1 bath", "845 sq ft"],
	"features": {"Parking Information": ["Garage Spaces: 1"], "Heating": ["Electric"]},
	"lastUpdated": 1718000000
}`

const rentDoc = `{
	"rentalId": "a1b2c3",
	"unitTypesByBedroom": [{
		"bedroomTitle": "Studio",
		"availableUnitTypes": [{
			"unitTypeId": "ut-1",
			"units": [{
				"unitId": "u-101",
				"bedrooms": 0,
				"depositCurrency": "USD",
				"fullBaths": 1,
				"halfBaths": 0,
				"name": "101",
				"rentCurrency": "USD",
				"rentPrice": 2150,
				"sqft": "480",
				"status": "available"
			}],
			"availableUnits": 1,
			"bedrooms": 0,
			"fullBaths": 1,
			"halfBaths": 0,
			"name": "S1",
			"rentPriceMax": 2300,
			"rentPriceMin": 2150,
			"sqftMax": 510,
			"sqftMin": 480,
			"status": "available",
			"style": "studio",
			"totalUnits": 12
		}]
	}]
}`

const searchDoc = `{
	"mlsId": {"label": "MLS#", "value": "2251234"},
	"price": {"value": 725000, "level": 1},
	"beds": 3,
	"baths": 2,
	"fullBaths": 2,
	"location": {"value": "Wallingford", "level": 1},
	"streetLine": {"value": "4012 Meridian Ave N", "level": 1},
	"countryCode": "US",
	"showAddressOnMap": true,
	"searchStatus": 1,
	"propertyType": 6,
	"uiPropertyType": 1,
	"listingType": 1,
	"propertyId": 123456,
	"listingId": 654321,
	"dataSourceId": 1,
	"marketId": 16,
	"latLong": {"value": {"latitude": 47.65, "longitude": -122.33}, "level": 1}
}`

func TestSaleSchemaAcceptsScrapedRecord(t *testing.T) {
	assert.Empty(t, Sale.Validate(decode(t, saleDoc)))
}

func TestSalePriceAsIntegerIsViolation(t *testing.T) {
	doc := decode(t, saleDoc)
	doc["price"] = 565000

	got := Sale.Validate(doc)
	require.Len(t, got, 1)
	assert.Equal(t, Violation{Path: "price", Expected: "string", Actual: "integer"}, got[0])
}

func TestSaleMissingAddressIsViolation(t *testing.T) {
	doc := decode(t, saleDoc)
	delete(doc, "address")

	got := Sale.Validate(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "address", got[0].Path)
	assert.Equal(t, "missing", got[0].Actual)
}

func TestSaleParkingInformationOptional(t *testing.T) {
	doc := decode(t, saleDoc)
	doc["features"] = map[string]any{"Heating": []any{"Electric"}}
	assert.Empty(t, Sale.Validate(doc))

	doc["features"] = map[string]any{"Parking Information": "Garage"}
	got := Sale.Validate(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "features.Parking Information", got[0].Path)
}

func TestRentSchemaAcceptsScrapedRecord(t *testing.T) {
	assert.Empty(t, Rent.Validate(decode(t, rentDoc)))
}

func TestRentIntegersAreStrict(t *testing.T) {
	doc := decode(t, rentDoc)
	unit := doc["unitTypesByBedroom"].([]any)[0].(map[string]any)["availableUnitTypes"].([]any)[0].(map[string]any)["units"].([]any)[0].(map[string]any)
	unit["rentPrice"] = "2150"
	unit["bedrooms"] = 1.5

	got := Rent.Validate(doc)
	require.Len(t, got, 2)
	assert.Equal(t, "unitTypesByBedroom[0].availableUnitTypes[0].units[0].bedrooms", got[0].Path)
	assert.Equal(t, "float", got[0].Actual)
	assert.Equal(t, "unitTypesByBedroom[0].availableUnitTypes[0].units[0].rentPrice", got[1].Path)
	assert.Equal(t, "string", got[1].Actual)
}

func TestSearchSchemaAcceptsScrapedRecord(t *testing.T) {
	assert.Empty(t, Search.Validate(decode(t, searchDoc)))
}

func TestSearchNestedMappings(t *testing.T) {
	doc := decode(t, searchDoc)
	doc["mlsId"] = "2251234"
	doc["streetLine"] = map[string]any{"value": "4012 Meridian Ave N", "level": "1"}

	got := Search.Validate(doc)
	require.Len(t, got, 2)
	assert.Equal(t, Violation{Path: "mlsId", Expected: "mapping", Actual: "string"}, got[0])
	assert.Equal(t, Violation{Path: "streetLine.level", Expected: "integer", Actual: "string"}, got[1])
}

func TestSearchSoldDateMayBeNull(t *testing.T) {
	doc := decode(t, searchDoc)
	doc["soldDate"] = nil
	assert.Empty(t, Search.Validate(doc))

	doc["listingId"] = nil
	got := Search.Validate(doc)
	require.Len(t, got, 1)
	assert.Equal(t, Violation{Path: "listingId", Expected: "integer", Actual: "null"}, got[0])
}

func TestForMode(t *testing.T) {
	for _, m := range models.Modes {
		s, err := ForMode(m)
		require.NoError(t, err)
		assert.Equal(t, Mapping, s.Kind)
	}

	_, err := ForMode(models.Mode("lease"))
	assert.Error(t, err)
}
