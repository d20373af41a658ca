package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCreate = `{
	"title": "Modern Office",
	"propertyType": "office",
	"size": {"value": 1000, "unit": "sqft"},
	"rent": {"monthly": 50000},
	"address": {
		"city": "Mumbai",
		"pincode": "400001",
		"coordinates": {"latitude": 19.07, "longitude": 72.87}
	},
	"amenities": ["parking", "wifi"],
	"availableFrom": "2026-01-01T00:00:00Z"
}`

func TestPropertyCreateAccepts(t *testing.T) {
	assert.NoError(t, PropertyCreate([]byte(validCreate)))
}

func TestPropertyCreateRejects(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"missing title":   {`{"propertyType":"office","size":{"value":1},"rent":{"monthly":1},"address":{"city":"Pune","pincode":"411001"}}`, "title"},
		"unknown type":    {`{"title":"Shop","propertyType":"castle","size":{"value":1},"rent":{"monthly":1},"address":{"city":"Pune","pincode":"411001"}}`, "propertyType"},
		"short pincode":   {`{"title":"Shop","propertyType":"retail","size":{"value":1},"rent":{"monthly":1},"address":{"city":"Pune","pincode":"4110"}}`, "address.pincode"},
		"latitude range":  {`{"title":"Shop","propertyType":"retail","size":{"value":1},"rent":{"monthly":1},"address":{"city":"Pune","pincode":"411001","coordinates":{"latitude":95,"longitude":10}}}`, "address.coordinates.latitude"},
		"negative rent":   {`{"title":"Shop","propertyType":"retail","size":{"value":1},"rent":{"monthly":-5},"address":{"city":"Pune","pincode":"411001"}}`, "rent.monthly"},
		"unknown amenity": {`{"title":"Shop","propertyType":"retail","size":{"value":1},"rent":{"monthly":1},"address":{"city":"Pune","pincode":"411001"},"amenities":["helipad"]}`, "amenities.0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := PropertyCreate([]byte(tc.body))
			require.ErrorIs(t, err, ErrInvalidBody)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestPropertyUpdateIsPartial(t *testing.T) {
	assert.NoError(t, PropertyUpdate([]byte(`{"rent":{"monthly":55000}}`)))
	assert.NoError(t, PropertyUpdate([]byte(`{}`)))

	err := PropertyUpdate([]byte(`{"status":"archived"}`))
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestMalformedJSON(t *testing.T) {
	err := PropertyCreate([]byte(`{"title":`))
	require.ErrorIs(t, err, ErrInvalidBody)
	assert.Contains(t, err.Error(), "malformed")
}
