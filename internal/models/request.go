package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TripOneWay    = "one-way"
	TripRoundTrip = "round-trip"

	DateLayout = "2006-01-02"

	MaxPassengers = 9
	MaxPageSize   = 100
)

type SearchFilters struct {
	PriceMin         *int     `json:"priceMin,omitempty" validate:"omitempty,min=0"`
	PriceMax         *int     `json:"priceMax,omitempty" validate:"omitempty,min=0"`
	MaxStops         *int     `json:"maxStops,omitempty" validate:"omitempty,min=0"`
	Airlines         []string `json:"airlines,omitempty"`
	DepartureTimeMin *string  `json:"departureTimeMin,omitempty" validate:"omitempty,datetime=15:04"`
	DepartureTimeMax *string  `json:"departureTimeMax,omitempty" validate:"omitempty,datetime=15:04"`
}

type SearchRequest struct {
	Origin      string         `json:"origin" validate:"required,len=3,alpha"`
	Destination string         `json:"destination" validate:"required,len=3,alpha,nefield=Origin"`
	DepartDate  string         `json:"departDate" validate:"required,datetime=2006-01-02"`
	ReturnDate  *string        `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Passengers  int            `json:"passengers" validate:"min=1,max=9"`
	TripType    string         `json:"tripType" validate:"oneof=one-way round-trip"`
	Filters     *SearchFilters `json:"filters,omitempty"`
	Page        int            `json:"page,omitempty" validate:"min=0"`
	PageSize    int            `json:"pageSize,omitempty" validate:"min=0,max=100"`
}

// Normalize trims and upper-cases airport codes and fills defaults. It must
// run before Validate so that validation sees the values sent to the vendor.
func (r *SearchRequest) Normalize() {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.DepartDate = strings.TrimSpace(r.DepartDate)

	if r.ReturnDate != nil {
		d := strings.TrimSpace(*r.ReturnDate)
		if d == "" {
			r.ReturnDate = nil
		} else {
			r.ReturnDate = &d
		}
	}

	if r.Passengers == 0 {
		r.Passengers = 1
	}

	r.TripType = strings.ToLower(strings.TrimSpace(r.TripType))
	if r.TripType == "" {
		if r.ReturnDate != nil {
			r.TripType = TripRoundTrip
		} else {
			r.TripType = TripOneWay
		}
	}
	if r.TripType == TripOneWay {
		r.ReturnDate = nil
	}

	if r.Filters != nil {
		for i, a := range r.Filters.Airlines {
			r.Filters.Airlines[i] = strings.ToUpper(strings.TrimSpace(a))
		}
	}
}

func (r *SearchRequest) Validate() error {
	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.DepartDate == "" {
		return ErrMissingDepartDate
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return ValidationError(err.Error())
	}
	return nil
}

// Params echoes the normalized request back to the caller.
func (r *SearchRequest) Params() SearchParams {
	return SearchParams{
		Origin:      r.Origin,
		Destination: r.Destination,
		DepartDate:  r.DepartDate,
		ReturnDate:  r.ReturnDate,
		Passengers:  r.Passengers,
		TripType:    r.TripType,
		Filters:     r.Filters,
	}
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrMissingDepartDate    ValidationError = "departDate is required"
	ErrMissingReturnDate    ValidationError = "returnDate is required for round-trip searches"
	ErrReturnBeforeDepart   ValidationError = "returnDate must not be before departDate"
	ErrSameOriginAndDest    ValidationError = "origin and destination must be different airports"
	ErrAirportQueryTooShort ValidationError = "city query must be at least 2 characters"
	ErrInvalidAirportCode   ValidationError = "airport code must be 3 letters"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(roundTripValidation, SearchRequest{})
	return v
}

func roundTripValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(SearchRequest)
	if req.TripType != TripRoundTrip {
		return
	}
	if req.ReturnDate == nil {
		sl.ReportError(req.ReturnDate, "returnDate", "ReturnDate", "required_round_trip", "")
		return
	}

	depart, err := time.Parse(DateLayout, req.DepartDate)
	if err != nil {
		return
	}
	ret, err := time.Parse(DateLayout, *req.ReturnDate)
	if err != nil {
		return
	}
	if ret.Before(depart) {
		sl.ReportError(req.ReturnDate, "returnDate", "ReturnDate", "not_before_depart", "")
	}
}

func describe(fe validator.FieldError) ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError(field + " is required")
	case "len", "alpha":
		return ValidationError(field + " must be a 3-letter IATA airport code")
	case "datetime":
		if fe.Param() == "15:04" {
			return ValidationError(field + " must be in HH:MM format")
		}
		return ValidationError(field + " must be in YYYY-MM-DD format")
	case "nefield":
		return ErrSameOriginAndDest
	case "oneof":
		return ValidationError(fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
	case "min":
		if field == "passengers" {
			return ValidationError(fmt.Sprintf("passengers must be between 1 and %d", MaxPassengers))
		}
		return ValidationError(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max":
		if field == "passengers" {
			return ValidationError(fmt.Sprintf("passengers must be between 1 and %d", MaxPassengers))
		}
		return ValidationError(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	case "required_round_trip":
		return ErrMissingReturnDate
	case "not_before_depart":
		return ErrReturnBeforeDepart
	default:
		return ValidationError(fmt.Sprintf("%s is invalid", field))
	}
}
