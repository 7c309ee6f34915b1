package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// FlightProvider is a single flight-data vendor. Implementations translate
// transport and vendor failures into *ProviderError and never retry.
type FlightProvider interface {
	Name() string
	SearchFlights(ctx context.Context, q FlightQuery) (*OfferBatch, error)
	SearchAirports(ctx context.Context, keyword string) ([]LocationRecord, error)
	PriceOffer(ctx context.Context, offer FlightOffer) (*OfferBatch, error)
}

type FlightQuery struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  *string
	Adults      int
	Max         int
	Currency    string
}

// ErrorKind is the closed set of vendor failure classes the retry policy
// dispatches on.
type ErrorKind int

const (
	KindTransient ErrorKind = iota + 1
	KindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

var ErrMissingCredentials = errors.New("vendor credentials are not configured")

type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Code       string
	Title      string
	Detail     string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + ": "
	if e.StatusCode != 0 {
		msg += fmt.Sprintf("status %d", e.StatusCode)
		if e.Title != "" {
			msg += " " + e.Title
		}
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		if e.Err != nil && e.Title == "" && e.Detail == "" {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
	if e.Err != nil {
		return msg + e.Err.Error()
	}
	return msg + e.Kind.String() + " failure"
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Transient() bool {
	return e.Kind == KindTransient
}

// NewProviderError wraps a transport-level failure. Transport failures are
// transient unless the caller's context was cancelled.
func NewProviderError(provider string, err error) *ProviderError {
	kind := KindTransient
	if errors.Is(err, context.Canceled) {
		kind = KindPermanent
	}
	return &ProviderError{
		Provider: provider,
		Kind:     kind,
		Err:      err,
	}
}

// NewStatusError builds the error for a non-2xx vendor response.
func NewStatusError(provider string, status int, code, title, detail string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Kind:       KindForStatus(status),
		StatusCode: status,
		Code:       code,
		Title:      title,
		Detail:     detail,
	}
}

// KindForStatus classifies an HTTP status: rate limiting and gateway
// failures are transient, everything else is permanent.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return KindTransient
	default:
		return KindPermanent
	}
}
