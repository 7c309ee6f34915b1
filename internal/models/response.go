package models

type SearchMeta struct {
	Total      int   `json:"total"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
	DurationMs int64 `json:"durationMs"`
	CacheHit   bool  `json:"cacheHit"`
}

type SearchParams struct {
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	DepartDate  string         `json:"departDate"`
	ReturnDate  *string        `json:"returnDate,omitempty"`
	Passengers  int            `json:"passengers"`
	TripType    string         `json:"tripType"`
	Filters     *SearchFilters `json:"filters,omitempty"`
}

// SearchResponse is the envelope returned by the flight search. Mock marks
// synthetic data produced while the vendor was unavailable.
type SearchResponse struct {
	Success      bool          `json:"success"`
	Data         []FlightOffer `json:"data"`
	Mock         bool          `json:"mock"`
	SearchParams SearchParams  `json:"searchParams"`
	Count        int           `json:"count"`
	Meta         SearchMeta    `json:"meta"`
}

type AirportResponse struct {
	Success  bool      `json:"success"`
	Data     []Airport `json:"data"`
	Count    int       `json:"count"`
	Source   string    `json:"source,omitempty"`
	Fallback bool      `json:"fallback,omitempty"`
}

type AirportDetailResponse struct {
	Success bool    `json:"success"`
	Data    Airport `json:"data"`
}

// PricedOfferResponse confirms the current price of an offer returned by an
// earlier search.
type PricedOfferResponse struct {
	Success       bool        `json:"success"`
	Data          FlightOffer `json:"data"`
	PriceChanged  bool        `json:"priceChanged"`
	PreviousPrice int         `json:"previousPrice"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
