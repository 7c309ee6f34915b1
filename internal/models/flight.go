package models

type SegmentEndpoint struct {
	AirportCode string  `json:"airportCode"`
	Terminal    *string `json:"terminal,omitempty"`
	Timestamp   string  `json:"timestamp"`
}

// Segment is one non-stop leg of an itinerary.
type Segment struct {
	Departure    SegmentEndpoint `json:"departure"`
	Arrival      SegmentEndpoint `json:"arrival"`
	CarrierCode  string          `json:"carrierCode"`
	FlightNumber string          `json:"flightNumber"`
	AircraftCode string          `json:"aircraftCode"`
	DurationText string          `json:"duration"`
}

// FlightOffer is the flat, display-ready form of one priced itinerary.
// Segments are in chronological order and Stops is always len(Segments)-1.
// Ref is set only on vendor offers and identifies the offer for pricing.
type FlightOffer struct {
	ID               string    `json:"id"`
	Ref              string    `json:"ref,omitempty"`
	Airline          string    `json:"airline"`
	AirlineCode      string    `json:"airlineCode"`
	AirlineLogo      string    `json:"airlineLogo,omitempty"`
	FlightNumberCode string    `json:"flightNumber"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	DepartTime       string    `json:"departTime"`
	ArriveTime       string    `json:"arriveTime"`
	DepartDate       string    `json:"departDate"`
	ArriveDate       string    `json:"arriveDate"`
	DurationText     string    `json:"duration"`
	Stops            int       `json:"stops"`
	Price            int       `json:"price"`
	PriceFormatted   string    `json:"priceFormatted,omitempty"`
	Currency         string    `json:"currency"`
	AircraftName     string    `json:"aircraft"`
	BaggageText      string    `json:"baggage"`
	CabinClass       string    `json:"cabinClass"`
	SeatsAvailable   int       `json:"seatsAvailable,omitempty"`
	BookingURL       string    `json:"bookingUrl"`
	Segments         []Segment `json:"segments"`
}

// Airport is a searchable location returned by the airport lookup.
type Airport struct {
	IATACode    string `json:"iataCode"`
	Name        string `json:"name"`
	CityName    string `json:"cityName"`
	CountryName string `json:"countryName"`
}
