package providers

import "encoding/json"

// Wire types for the Amadeus Self-Service APIs. Only the fields the
// normalizer reads are modelled.

type flightOffersResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Data         []FlightOffer `json:"data"`
	Dictionaries *Dictionaries `json:"dictionaries,omitempty"`
}

type locationsResponse struct {
	Data []LocationRecord `json:"data"`
}

type pricingEnvelope struct {
	Data pricingData `json:"data"`
}

type pricingData struct {
	Type         string        `json:"type"`
	FlightOffers []FlightOffer `json:"flightOffers"`
}

type pricingResponse struct {
	Data         pricingData   `json:"data"`
	Dictionaries *Dictionaries `json:"dictionaries,omitempty"`
}

type amadeusErrorResponse struct {
	Errors []amadeusError `json:"errors"`
}

type amadeusError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// OfferBatch is one vendor search result: raw offers plus the code
// dictionaries the vendor returned alongside them.
type OfferBatch struct {
	Offers       []FlightOffer
	Dictionaries *Dictionaries
}

type Dictionaries struct {
	Carriers   map[string]string       `json:"carriers,omitempty"`
	Aircraft   map[string]string       `json:"aircraft,omitempty"`
	Currencies map[string]string       `json:"currencies,omitempty"`
	Locations  map[string]LocationCode `json:"locations,omitempty"`
}

type LocationCode struct {
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}

type FlightOffer struct {
	ID                     string            `json:"id"`
	Source                 string            `json:"source"`
	LastTicketingDate      string            `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats  int               `json:"numberOfBookableSeats"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  OfferPrice        `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the vendor's original document so the offer can be
// sent back for pricing without losing fields this package does not model.
func (o *FlightOffer) UnmarshalJSON(b []byte) error {
	type plain FlightOffer
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = FlightOffer(p)
	o.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (o FlightOffer) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	type plain FlightOffer
	return json.Marshal(plain(o))
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	ID            string           `json:"id"`
	Departure     SegmentEndpoint  `json:"departure"`
	Arrival       SegmentEndpoint  `json:"arrival"`
	CarrierCode   string           `json:"carrierCode"`
	Number        string           `json:"number"`
	Aircraft      SegmentAircraft  `json:"aircraft"`
	Operating     *SegmentOperator `json:"operating,omitempty"`
	Duration      string           `json:"duration"`
	NumberOfStops int              `json:"numberOfStops"`
}

type SegmentEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type SegmentAircraft struct {
	Code string `json:"code"`
}

type SegmentOperator struct {
	CarrierCode string `json:"carrierCode"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base"`
	GrandTotal string `json:"grandTotal"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareOption           string       `json:"fareOption"`
	TravelerType         string       `json:"travelerType"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

type FareDetail struct {
	SegmentID           string       `json:"segmentId"`
	Cabin               string       `json:"cabin"`
	FareBasis           string       `json:"fareBasis"`
	Class               string       `json:"class"`
	IncludedCheckedBags *CheckedBags `json:"includedCheckedBags,omitempty"`
}

type CheckedBags struct {
	Quantity   int    `json:"quantity,omitempty"`
	Weight     int    `json:"weight,omitempty"`
	WeightUnit string `json:"weightUnit,omitempty"`
}

// LocationRecord is one entry from the locations reference API.
type LocationRecord struct {
	Type         string          `json:"type"`
	SubType      string          `json:"subType"`
	Name         string          `json:"name"`
	DetailedName string          `json:"detailedName"`
	IATACode     string          `json:"iataCode"`
	Address      LocationAddress `json:"address"`
}

type LocationAddress struct {
	CityName    string `json:"cityName"`
	CityCode    string `json:"cityCode"`
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}
