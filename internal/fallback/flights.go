// Package fallback produces synthetic flights and a static airport list for
// use when the vendor is unavailable. Everything it returns is flagged as
// non-authoritative by the caller.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/skyfinder/internal/localtime"
	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/normalizer"
	"github.com/dharmasatrya/skyfinder/internal/reference"
	"github.com/dharmasatrya/skyfinder/pkg/currency"
)

const (
	DefaultCount = 8

	mockCurrency  = "INR"
	minPrice      = 3000
	priceSpread   = 5000
	baseMinutes   = 120
	oneStopChance = 0.3
)

var (
	mockCarriers = []string{"AI", "6E", "SG", "UK", "G8"}
	mockAircraft = []string{"320", "32N", "321", "738", "7M8"}
	hubs         = []string{"HYD", "BLR", "AMD"}
)

type Generator struct {
	Count   int
	Links   normalizer.LinkBuilder
	NewRand func() *rand.Rand
}

func NewGenerator(count int, links normalizer.LinkBuilder) *Generator {
	return &Generator{Count: count, Links: links}
}

func (g *Generator) source() *rand.Rand {
	if g.NewRand != nil {
		return g.NewRand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// GenerateFlights returns Count synthetic offers for the route, sorted by
// price. Every call draws from its own random source.
func (g *Generator) GenerateFlights(origin, destination, departDate string) []models.FlightOffer {
	count := g.Count
	if count <= 0 {
		count = DefaultCount
	}
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	day, err := time.Parse(localtime.DateLayout, departDate)
	if err != nil {
		day = time.Now().UTC().Truncate(24 * time.Hour)
	}

	r := g.source()
	flights := make([]models.FlightOffer, 0, count)
	for i := 0; i < count; i++ {
		flights = append(flights, g.offer(r, i, origin, destination, day))
	}

	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})
	return flights
}

func (g *Generator) offer(r *rand.Rand, i int, origin, destination string, day time.Time) models.FlightOffer {
	code := mockCarriers[i%len(mockCarriers)]
	aircraft := mockAircraft[r.IntN(len(mockAircraft))]
	flightNumber := strconv.Itoa(100 + i)

	minute := 0
	if r.IntN(2) == 1 {
		minute = 30
	}
	depart := day.Add(time.Duration((6+2*i)%24)*time.Hour + time.Duration(minute)*time.Minute)
	totalMinutes := baseMinutes + 15*r.IntN(5)
	arrive := depart.Add(time.Duration(totalMinutes) * time.Minute)
	price := minPrice + r.IntN(priceSpread+1)

	var segments []models.Segment
	if hub := pickHub(r, origin, destination); hub != "" {
		firstLeg := totalMinutes / 2
		stopover := depart.Add(time.Duration(firstLeg) * time.Minute)
		segments = []models.Segment{
			mockSegment(code, flightNumber, aircraft, origin, hub, depart, stopover),
			mockSegment(code, strconv.Itoa(500 + i), aircraft, hub, destination, stopover, arrive),
		}
	} else {
		segments = []models.Segment{
			mockSegment(code, flightNumber, aircraft, origin, destination, depart, arrive),
		}
	}

	id := "mock-" + uuid.NewString()
	return models.FlightOffer{
		ID:               id,
		Airline:          reference.AirlineName(code, nil),
		AirlineCode:      code,
		AirlineLogo:      fmt.Sprintf("https://images.kiwi.com/airlines/64/%s.png", code),
		FlightNumberCode: code + " " + flightNumber,
		Origin:           origin,
		Destination:      destination,
		DepartTime:       depart.Format(localtime.ClockLayout),
		ArriveTime:       arrive.Format(localtime.ClockLayout),
		DepartDate:       depart.Format(localtime.DateLayout),
		ArriveDate:       arrive.Format(localtime.DateLayout),
		DurationText:     normalizer.FormatMinutes(totalMinutes),
		Stops:            len(segments) - 1,
		Price:            price,
		PriceFormatted:   currency.Format(price, mockCurrency),
		Currency:         mockCurrency,
		AircraftName:     reference.AircraftName(aircraft, nil),
		BaggageText:      normalizer.DefaultBaggage,
		CabinClass:       normalizer.DefaultCabin,
		SeatsAvailable:   10 + r.IntN(50),
		BookingURL:       g.Links.Build(origin, destination, id),
		Segments:         segments,
	}
}

func pickHub(r *rand.Rand, origin, destination string) string {
	if r.Float64() >= oneStopChance {
		return ""
	}
	candidates := make([]string, 0, len(hubs))
	for _, h := range hubs {
		if h != origin && h != destination {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[r.IntN(len(candidates))]
}

func mockSegment(carrier, number, aircraft, from, to string, dep, arr time.Time) models.Segment {
	return models.Segment{
		Departure:    models.SegmentEndpoint{AirportCode: from, Timestamp: dep.Format("2006-01-02T15:04:05")},
		Arrival:      models.SegmentEndpoint{AirportCode: to, Timestamp: arr.Format("2006-01-02T15:04:05")},
		CarrierCode:  carrier,
		FlightNumber: number,
		AircraftCode: aircraft,
		DurationText: normalizer.FormatMinutes(int(arr.Sub(dep).Minutes())),
	}
}
