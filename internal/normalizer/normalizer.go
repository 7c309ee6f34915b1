// Package normalizer turns raw vendor flight offers into display-ready
// models.FlightOffer values.
package normalizer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/dharmasatrya/skyfinder/internal/localtime"
	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/providers"
	"github.com/dharmasatrya/skyfinder/internal/reference"
	"github.com/dharmasatrya/skyfinder/pkg/currency"
)

const (
	DefaultBaggage = "15 kg"
	DefaultCabin   = "ECONOMY"

	airlineLogoURL = "https://images.kiwi.com/airlines/64/%s.png"
)

// NormalizationError reports a vendor offer that cannot be displayed. The
// offer is dropped; the rest of the batch is unaffected.
type NormalizationError struct {
	OfferID string
	Reason  string
	Err     error
}

func (e *NormalizationError) Error() string {
	msg := fmt.Sprintf("offer %q: %s", e.OfferID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

type Normalizer struct {
	Links LinkBuilder
}

func New(links LinkBuilder) *Normalizer {
	return &Normalizer{Links: links}
}

// Normalize flattens the first itinerary of a vendor offer. Return legs of
// round-trip offers are not modelled.
func (n *Normalizer) Normalize(offer providers.FlightOffer, dict *providers.Dictionaries) (models.FlightOffer, error) {
	if len(offer.Itineraries) == 0 {
		return models.FlightOffer{}, &NormalizationError{OfferID: offer.ID, Reason: "no itineraries"}
	}
	itinerary := offer.Itineraries[0]
	if len(itinerary.Segments) == 0 {
		return models.FlightOffer{}, &NormalizationError{OfferID: offer.ID, Reason: "no segments"}
	}

	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	departTime, err := localtime.Clock(first.Departure.At)
	if err != nil {
		return models.FlightOffer{}, &NormalizationError{OfferID: offer.ID, Reason: "bad departure time", Err: err}
	}
	arriveTime, err := localtime.Clock(last.Arrival.At)
	if err != nil {
		return models.FlightOffer{}, &NormalizationError{OfferID: offer.ID, Reason: "bad arrival time", Err: err}
	}
	departDate, _ := localtime.Date(first.Departure.At)
	arriveDate, _ := localtime.Date(last.Arrival.At)

	total, err := strconv.ParseFloat(strings.TrimSpace(offer.Price.Total), 64)
	if err != nil {
		return models.FlightOffer{}, &NormalizationError{OfferID: offer.ID, Reason: "bad price", Err: err}
	}
	price := int(math.Round(total))

	currencyCode := strings.ToUpper(strings.TrimSpace(offer.Price.Currency))
	if !currency.Valid(currencyCode) {
		slog.Warn("offer has unknown currency, showing bare amount",
			slog.String("offer_id", offer.ID),
			slog.String("currency", offer.Price.Currency),
		)
	}

	var carriers, aircraft map[string]string
	if dict != nil {
		carriers = dict.Carriers
		aircraft = dict.Aircraft
	}

	airlineCode := first.CarrierCode
	if airlineCode == "" && len(offer.ValidatingAirlineCodes) > 0 {
		airlineCode = offer.ValidatingAirlineCodes[0]
	}

	duration := itinerary.Duration
	if duration == "" {
		duration = first.Duration
	}

	origin := first.Departure.IATACode
	destination := last.Arrival.IATACode

	return models.FlightOffer{
		ID:               offer.ID,
		Airline:          reference.AirlineName(airlineCode, carriers),
		AirlineCode:      airlineCode,
		AirlineLogo:      fmt.Sprintf(airlineLogoURL, airlineCode),
		FlightNumberCode: strings.TrimSpace(airlineCode + " " + first.Number),
		Origin:           origin,
		Destination:      destination,
		DepartTime:       departTime,
		ArriveTime:       arriveTime,
		DepartDate:       departDate,
		ArriveDate:       arriveDate,
		DurationText:     FormatDuration(duration),
		Stops:            len(itinerary.Segments) - 1,
		Price:            price,
		PriceFormatted:   currency.Format(price, currencyCode),
		Currency:         currencyCode,
		AircraftName:     reference.AircraftName(first.Aircraft.Code, aircraft),
		BaggageText:      baggageText(offer),
		CabinClass:       cabinClass(offer),
		SeatsAvailable:   offer.NumberOfBookableSeats,
		BookingURL:       n.Links.Build(origin, destination, offer.ID),
		Segments:         segments(itinerary.Segments),
	}, nil
}

func segments(raw []providers.Segment) []models.Segment {
	out := make([]models.Segment, len(raw))
	for i, s := range raw {
		out[i] = models.Segment{
			Departure:    endpoint(s.Departure),
			Arrival:      endpoint(s.Arrival),
			CarrierCode:  s.CarrierCode,
			FlightNumber: s.Number,
			AircraftCode: s.Aircraft.Code,
			DurationText: FormatDuration(s.Duration),
		}
	}
	return out
}

func endpoint(e providers.SegmentEndpoint) models.SegmentEndpoint {
	var terminal *string
	if e.Terminal != "" {
		t := e.Terminal
		terminal = &t
	}
	return models.SegmentEndpoint{
		AirportCode: e.IATACode,
		Terminal:    terminal,
		Timestamp:   e.At,
	}
}

func firstFare(offer providers.FlightOffer) *providers.FareDetail {
	if len(offer.TravelerPricings) == 0 {
		return nil
	}
	fares := offer.TravelerPricings[0].FareDetailsBySegment
	if len(fares) == 0 {
		return nil
	}
	return &fares[0]
}

func baggageText(offer providers.FlightOffer) string {
	fare := firstFare(offer)
	if fare == nil || fare.IncludedCheckedBags == nil {
		return DefaultBaggage
	}
	bags := fare.IncludedCheckedBags
	switch {
	case bags.Quantity == 1:
		return "1 piece"
	case bags.Quantity > 1:
		return fmt.Sprintf("%d pieces", bags.Quantity)
	case bags.Weight > 0:
		unit := strings.ToLower(bags.WeightUnit)
		if unit == "" || unit == "kilograms" {
			unit = "kg"
		}
		return fmt.Sprintf("%d %s", bags.Weight, unit)
	default:
		return DefaultBaggage
	}
}

func cabinClass(offer providers.FlightOffer) string {
	if fare := firstFare(offer); fare != nil && fare.Cabin != "" {
		return fare.Cabin
	}
	return DefaultCabin
}
