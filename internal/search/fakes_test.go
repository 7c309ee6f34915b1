package search

import (
	"context"
	"sync"

	"github.com/dharmasatrya/skyfinder/internal/history"
	"github.com/dharmasatrya/skyfinder/internal/providers"
)

type fakeProvider struct {
	mu           sync.Mutex
	flightCalls  int
	airportCalls int
	priceCalls   int
	flights      func(call int, q providers.FlightQuery) (*providers.OfferBatch, error)
	airports     func(call int, keyword string) ([]providers.LocationRecord, error)
	price        func(call int, offer providers.FlightOffer) (*providers.OfferBatch, error)
}

func (f *fakeProvider) Name() string { return "amadeus" }

func (f *fakeProvider) SearchFlights(ctx context.Context, q providers.FlightQuery) (*providers.OfferBatch, error) {
	f.mu.Lock()
	f.flightCalls++
	call := f.flightCalls
	f.mu.Unlock()
	return f.flights(call, q)
}

func (f *fakeProvider) SearchAirports(ctx context.Context, keyword string) ([]providers.LocationRecord, error) {
	f.mu.Lock()
	f.airportCalls++
	call := f.airportCalls
	f.mu.Unlock()
	return f.airports(call, keyword)
}

func (f *fakeProvider) PriceOffer(ctx context.Context, offer providers.FlightOffer) (*providers.OfferBatch, error) {
	f.mu.Lock()
	f.priceCalls++
	call := f.priceCalls
	f.mu.Unlock()
	return f.price(call, offer)
}

func (f *fakeProvider) PriceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priceCalls
}

func (f *fakeProvider) FlightCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flightCalls
}

func (f *fakeProvider) AirportCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.airportCalls
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []history.Entry
	err     error
}

func (h *fakeHistory) Record(ctx context.Context, e history.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, e)
	return nil
}

func (h *fakeHistory) Backend() string { return "fake" }
func (h *fakeHistory) Close() error    { return nil }

func (h *fakeHistory) Entries() []history.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]history.Entry(nil), h.entries...)
}

func unavailable(int, providers.FlightQuery) (*providers.OfferBatch, error) {
	return nil, providers.NewStatusError("amadeus", 503, "141", "SYSTEM ERROR HAS OCCURRED", "")
}

func rawOffer(id, price string, carriers ...string) providers.FlightOffer {
	segs := make([]providers.Segment, 0, len(carriers))
	for i, c := range carriers {
		segs = append(segs, providers.Segment{
			ID:          id + "-" + c,
			Departure:   providers.SegmentEndpoint{IATACode: []string{"DEL", "HYD"}[i%2], At: "2026-11-20T06:00:00"},
			Arrival:     providers.SegmentEndpoint{IATACode: []string{"HYD", "BOM"}[i%2], At: "2026-11-20T08:15:00"},
			CarrierCode: c,
			Number:      "100",
			Duration:    "PT2H15M",
		})
	}
	if len(segs) == 1 {
		segs[0].Arrival.IATACode = "BOM"
	}
	return providers.FlightOffer{
		ID:          id,
		Itineraries: []providers.Itinerary{{Duration: "PT2H15M", Segments: segs}},
		Price:       providers.OfferPrice{Currency: "INR", Total: price},
	}
}
