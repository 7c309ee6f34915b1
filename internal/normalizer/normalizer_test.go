package normalizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfinder/internal/providers"
)

func twoSegmentOffer() providers.FlightOffer {
	return providers.FlightOffer{
		ID:                    "42",
		NumberOfBookableSeats: 7,
		Itineraries: []providers.Itinerary{{
			Duration: "PT5H40M",
			Segments: []providers.Segment{
				{
					ID:          "1",
					Departure:   providers.SegmentEndpoint{IATACode: "DEL", Terminal: "3", At: "2026-11-20T22:10:00"},
					Arrival:     providers.SegmentEndpoint{IATACode: "HYD", At: "2026-11-21T00:25:00"},
					CarrierCode: "6E",
					Number:      "2031",
					Aircraft:    providers.SegmentAircraft{Code: "32N"},
					Duration:    "PT2H15M",
				},
				{
					ID:          "2",
					Departure:   providers.SegmentEndpoint{IATACode: "HYD", At: "2026-11-21T02:00:00"},
					Arrival:     providers.SegmentEndpoint{IATACode: "BOM", Terminal: "1", At: "2026-11-21T03:50:00"},
					CarrierCode: "6E",
					Number:      "5318",
					Aircraft:    providers.SegmentAircraft{Code: "320"},
					Duration:    "PT1H50M",
				},
			},
		}},
		Price: providers.OfferPrice{Currency: "INR", Total: "5123.50"},
		TravelerPricings: []providers.TravelerPricing{{
			FareDetailsBySegment: []providers.FareDetail{{
				SegmentID:           "1",
				Cabin:               "PREMIUM_ECONOMY",
				IncludedCheckedBags: &providers.CheckedBags{Quantity: 2},
			}},
		}},
	}
}

func TestNormalize_TwoSegments(t *testing.T) {
	n := New(LinkBuilder{AffiliateID: "partner"})

	got, err := n.Normalize(twoSegmentOffer(), nil)
	require.NoError(t, err)

	assert.Equal(t, "42", got.ID)
	assert.Equal(t, 1, got.Stops)
	assert.Equal(t, "IndiGo", got.Airline)
	assert.Equal(t, "6E", got.AirlineCode)
	assert.Equal(t, "6E 2031", got.FlightNumberCode)
	assert.Equal(t, "DEL", got.Origin)
	assert.Equal(t, "BOM", got.Destination)
	assert.Equal(t, "22:10", got.DepartTime)
	assert.Equal(t, "03:50", got.ArriveTime)
	assert.Equal(t, "2026-11-20", got.DepartDate)
	assert.Equal(t, "2026-11-21", got.ArriveDate)
	assert.Equal(t, "5h 40m", got.DurationText)
	assert.Equal(t, 5124, got.Price)
	assert.Equal(t, "₹5,124", got.PriceFormatted)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "Airbus A320neo", got.AircraftName)
	assert.Equal(t, "2 pieces", got.BaggageText)
	assert.Equal(t, "PREMIUM_ECONOMY", got.CabinClass)
	assert.Equal(t, 7, got.SeatsAvailable)
	assert.Equal(t, "https://images.kiwi.com/airlines/64/6E.png", got.AirlineLogo)
	assert.Equal(t, "https://www.skyscanner.co.in/transport/flights/DEL/BOM?affiliateid=partner&offer=42", got.BookingURL)

	require.Len(t, got.Segments, 2)
	assert.Equal(t, "DEL", got.Segments[0].Departure.AirportCode)
	require.NotNil(t, got.Segments[0].Departure.Terminal)
	assert.Equal(t, "3", *got.Segments[0].Departure.Terminal)
	assert.Nil(t, got.Segments[0].Arrival.Terminal)
	assert.Equal(t, "HYD", got.Segments[1].Departure.AirportCode)
	assert.Equal(t, "5318", got.Segments[1].FlightNumber)
	assert.Equal(t, "1h 50m", got.Segments[1].DurationText)
}

func TestNormalize_PrefersVendorDictionary(t *testing.T) {
	dict := &providers.Dictionaries{
		Carriers: map[string]string{"6E": "INTERGLOBE AVIATION"},
		Aircraft: map[string]string{"32N": "AIRBUS A320NEO"},
	}

	got, err := New(LinkBuilder{}).Normalize(twoSegmentOffer(), dict)
	require.NoError(t, err)
	assert.Equal(t, "Interglobe Aviation", got.Airline)
	assert.Equal(t, "Airbus A320neo", got.AircraftName)
}

func TestNormalize_UnknownCodesFallBackToRawCode(t *testing.T) {
	offer := twoSegmentOffer()
	offer.Itineraries[0].Segments[0].CarrierCode = "Q9"
	offer.Itineraries[0].Segments[0].Aircraft.Code = "ZZZ"

	got, err := New(LinkBuilder{}).Normalize(offer, nil)
	require.NoError(t, err)
	assert.Equal(t, "Q9", got.Airline)
	assert.Equal(t, "ZZZ", got.AircraftName)
}

func TestNormalize_OnlyFirstItinerary(t *testing.T) {
	offer := twoSegmentOffer()
	offer.Itineraries = append(offer.Itineraries, providers.Itinerary{
		Duration: "PT2H",
		Segments: []providers.Segment{{
			Departure: providers.SegmentEndpoint{IATACode: "BOM", At: "2026-11-25T09:00:00"},
			Arrival:   providers.SegmentEndpoint{IATACode: "DEL", At: "2026-11-25T11:00:00"},
		}},
	})

	got, err := New(LinkBuilder{}).Normalize(offer, nil)
	require.NoError(t, err)
	assert.Equal(t, "DEL", got.Origin)
	assert.Equal(t, "BOM", got.Destination)
	assert.Len(t, got.Segments, 2)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*providers.FlightOffer)
	}{
		{"no itineraries", func(o *providers.FlightOffer) { o.Itineraries = nil }},
		{"no segments", func(o *providers.FlightOffer) { o.Itineraries[0].Segments = nil }},
		{"unparseable price", func(o *providers.FlightOffer) { o.Price.Total = "n/a" }},
		{"unparseable departure", func(o *providers.FlightOffer) { o.Itineraries[0].Segments[0].Departure.At = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := twoSegmentOffer()
			tt.mutate(&offer)

			_, err := New(LinkBuilder{}).Normalize(offer, nil)
			var nerr *NormalizationError
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, "42", nerr.OfferID)
		})
	}
}

func TestNormalize_Baggage(t *testing.T) {
	tests := []struct {
		name string
		bags *providers.CheckedBags
		want string
	}{
		{"absent", nil, DefaultBaggage},
		{"one piece", &providers.CheckedBags{Quantity: 1}, "1 piece"},
		{"weight", &providers.CheckedBags{Weight: 23, WeightUnit: "KG"}, "23 kg"},
		{"empty allowance", &providers.CheckedBags{}, DefaultBaggage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := twoSegmentOffer()
			offer.TravelerPricings[0].FareDetailsBySegment[0].IncludedCheckedBags = tt.bags

			got, err := New(LinkBuilder{}).Normalize(offer, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.BaggageText)
		})
	}
}

func TestNormalize_DefaultCabin(t *testing.T) {
	offer := twoSegmentOffer()
	offer.TravelerPricings = nil

	got, err := New(LinkBuilder{}).Normalize(offer, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultCabin, got.CabinClass)
	assert.Equal(t, DefaultBaggage, got.BaggageText)
}

func TestNormalize_Currency(t *testing.T) {
	tests := []struct {
		code          string
		wantCurrency  string
		wantFormatted string
	}{
		{"INR", "INR", "₹5,124"},
		{"usd", "USD", "$5,124"},
		{"AED", "AED", "AED 5,124"},
		{"XYZ", "XYZ", "5,124"},
		{"", "", "5,124"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			offer := twoSegmentOffer()
			offer.Price.Currency = tt.code

			got, err := New(LinkBuilder{}).Normalize(offer, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrency, got.Currency)
			assert.Equal(t, tt.wantFormatted, got.PriceFormatted)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[string]string{
		"PT2H15M": "2h 15m",
		"PT45M":   "45m",
		"PT3H":    "3h",
		"P1DT2H":  "26h",
		"PT0M":    "0m",
		"pt1h5m":  "1h 5m",
		"2 hours": "2 hours",
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatDuration(in), in)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "2h 15m", FormatMinutes(135))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "3h", FormatMinutes(180))
	assert.Equal(t, "0m", FormatMinutes(0))
}

func TestLinkBuilder(t *testing.T) {
	assert.Equal(t,
		"https://www.skyscanner.co.in/transport/flights/DEL/BOM",
		LinkBuilder{}.Build("del", "bom", "1"))
	assert.Equal(t,
		"https://example.com/flights/DEL/BOM?affiliateid=abc&offer=9",
		LinkBuilder{BaseURL: "https://example.com/flights/", AffiliateID: "abc"}.Build("DEL", "BOM", "9"))
}
