package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
)

func room(code string, price float64) *cruise.Room {
	return &cruise.Room{MetaCode: code, Price: price, RateCode: "PSI"}
}

func itinerary(id string, duration int, sailings ...cruise.Sailing) cruise.Itinerary {
	return cruise.Itinerary{
		ID:                id,
		Duration:          duration,
		DeparturePortName: "Miami, FL",
		ShipCode:          "VI",
		RegionName:        "Bahamas",
		RegionCode:        "BH",
		Sailings:          sailings,
	}
}

func sailing(id, date string, rooms cruise.Rooms) cruise.Sailing {
	return cruise.Sailing{SailingID: id, DepartureDate: date, Rooms: rooms}
}

func searchResponse(itineraries ...cruise.Itinerary) *cruise.SearchResponse {
	resp := &cruise.SearchResponse{}
	resp.Results.Itineraries = itineraries
	return resp
}

func TestReduceAndFlatten_KeepsTargetCategoryInOrder(t *testing.T) {
	resp := searchResponse(
		itinerary("BAD_MIA_VI_4", 4, sailing("S1", "2018-11-26", cruise.Rooms{OceanView: room("OS", 399)})),
		itinerary("BAD_MIA_VI_5", 5, sailing("S2", "2018-12-03", cruise.Rooms{OceanView: room("OS", 499)})),
		itinerary("BAD_MIA_VI_4B", 4, sailing("S3", "2018-12-10", cruise.Rooms{Interior: room("IS", 199)})),
	)

	candidates, err := Flatten(Reduce(resp, OceanView))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "S1", candidates[0].SailingID)
	assert.Equal(t, "S2", candidates[1].SailingID)
	for _, c := range candidates {
		assert.Equal(t, "OS", c.CategoryCode)
	}
	assert.Equal(t, "BAD", candidates[0].ItineraryCode)
	assert.Equal(t, "4 days from Miami to Bahamas in an ocean view stateroom for $399 on November 26, 2018", candidates[0].ItineraryName)
}

func TestReduce_BoundedByPairs(t *testing.T) {
	all := cruise.Rooms{Interior: room("IS", 1), OceanView: room("OS", 2), Balcony: room("OB", 3), Suite: room("SU", 4)}
	resp := searchResponse(
		itinerary("A_1", 3, sailing("S1", "2019-01-01", all), sailing("S2", "2019-01-08", all)),
		itinerary("B_1", 7, sailing("S3", "2019-02-01", all)),
	)

	for _, c := range []Category{Interior, OceanView, Balcony, Suite} {
		pairs := Reduce(resp, c)
		assert.LessOrEqual(t, len(pairs), 3)
		assert.Len(t, pairs, 3)
		for _, p := range pairs {
			assert.Equal(t, string(c), p.Room.MetaCode)
		}
	}
}

func TestReduce_SkipsSoldOutAndEmpty(t *testing.T) {
	soldOut := room("OS", 300)
	soldOut.SoldOut = true
	resp := searchResponse(itinerary("A_1", 3, sailing("S1", "2019-01-01", cruise.Rooms{OceanView: soldOut})))

	assert.Empty(t, Reduce(resp, OceanView))
	assert.Empty(t, Reduce(nil, OceanView))

	candidates, err := Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFlatten_UnknownCategoryFails(t *testing.T) {
	it := itinerary("A_1", 3)
	s := sailing("S1", "2019-01-01", cruise.Rooms{})
	pairs := []ItinerarySailing{{Itinerary: &it, Sailing: &s, Room: room("XX", 10)}}

	_, err := Flatten(pairs)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFormatItinerary(t *testing.T) {
	tests := []struct {
		name        string
		port        string
		category    Category
		price       float64
		includesTax bool
		date        string
		want        string
	}{
		{
			name:     "whole price",
			port:     "Miami, FL",
			category: Interior,
			price:    199,
			date:     "2018-11-26T00:00:00",
			want:     "4 days from Miami to Bahamas in an interior stateroom for $199 on November 26, 2018",
		},
		{
			name:        "cents with taxes",
			port:        "Port Canaveral",
			category:    Suite,
			price:       1234.5,
			includesTax: true,
			date:        "2019-03-01T00:00:00Z",
			want:        "4 days from Port Canaveral to Bahamas in a suite for $1234.50 including taxes on March 1, 2019",
		},
		{
			name:     "zoned date rendered in UTC",
			port:     "Miami",
			category: Balcony,
			price:    500,
			date:     "2019-03-01T22:00:00-05:00",
			want:     "4 days from Miami to Bahamas in a balcony stateroom for $500 on March 2, 2019",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatItinerary(4, tt.port, "Bahamas", tt.category, tt.price, tt.includesTax, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := FormatItinerary(4, tt.port, "Bahamas", tt.category, tt.price, tt.includesTax, tt.date)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestFormatItinerary_Errors(t *testing.T) {
	_, err := FormatItinerary(4, "Miami", "Bahamas", Category("XX"), 1, false, "2019-01-01")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = FormatItinerary(4, "Miami", "Bahamas", Interior, 1, false, "next tuesday")
	assert.Error(t, err)
}
