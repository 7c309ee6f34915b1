package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validRequest() SearchRequest {
	return SearchRequest{
		Origin:      "del",
		Destination: " bom ",
		DepartDate:  "2026-11-15",
		Passengers:  1,
		TripType:    TripOneWay,
	}
}

func TestNormalize_UppercasesAndDefaults(t *testing.T) {
	req := SearchRequest{Origin: " del", Destination: "bom ", DepartDate: "2026-11-15"}
	req.Normalize()

	assert.Equal(t, "DEL", req.Origin)
	assert.Equal(t, "BOM", req.Destination)
	assert.Equal(t, 1, req.Passengers)
	assert.Equal(t, TripOneWay, req.TripType)
	assert.Nil(t, req.ReturnDate)
}

func TestNormalize_InfersRoundTripFromReturnDate(t *testing.T) {
	req := validRequest()
	req.TripType = ""
	req.ReturnDate = strPtr("2026-11-20")
	req.Normalize()

	assert.Equal(t, TripRoundTrip, req.TripType)
	require.NotNil(t, req.ReturnDate)
	assert.Equal(t, "2026-11-20", *req.ReturnDate)
}

func TestNormalize_OneWayDropsReturnDate(t *testing.T) {
	req := validRequest()
	req.ReturnDate = strPtr("2026-11-20")
	req.Normalize()

	assert.Nil(t, req.ReturnDate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *SearchRequest)
		wantErr error
	}{
		{
			name:   "valid one-way",
			mutate: func(r *SearchRequest) {},
		},
		{
			name: "valid round-trip",
			mutate: func(r *SearchRequest) {
				r.TripType = TripRoundTrip
				r.ReturnDate = strPtr("2026-11-15")
			},
		},
		{
			name:    "missing origin",
			mutate:  func(r *SearchRequest) { r.Origin = "" },
			wantErr: ErrMissingOrigin,
		},
		{
			name:    "missing destination",
			mutate:  func(r *SearchRequest) { r.Destination = "  " },
			wantErr: ErrMissingDestination,
		},
		{
			name:    "missing depart date",
			mutate:  func(r *SearchRequest) { r.DepartDate = "" },
			wantErr: ErrMissingDepartDate,
		},
		{
			name:    "malformed depart date",
			mutate:  func(r *SearchRequest) { r.DepartDate = "15/11/2026" },
			wantErr: ValidationError("departDate must be in YYYY-MM-DD format"),
		},
		{
			name:    "same origin and destination",
			mutate:  func(r *SearchRequest) { r.Destination = "del" },
			wantErr: ErrSameOriginAndDest,
		},
		{
			name: "round-trip without return date",
			mutate: func(r *SearchRequest) {
				r.TripType = TripRoundTrip
			},
			wantErr: ErrMissingReturnDate,
		},
		{
			name: "return before depart",
			mutate: func(r *SearchRequest) {
				r.TripType = TripRoundTrip
				r.ReturnDate = strPtr("2026-11-14")
			},
			wantErr: ErrReturnBeforeDepart,
		},
		{
			name:    "too many passengers",
			mutate:  func(r *SearchRequest) { r.Passengers = 10 },
			wantErr: ValidationError("passengers must be between 1 and 9"),
		},
		{
			name:    "negative passengers",
			mutate:  func(r *SearchRequest) { r.Passengers = -1 },
			wantErr: ValidationError("passengers must be between 1 and 9"),
		},
		{
			name:    "unknown trip type",
			mutate:  func(r *SearchRequest) { r.TripType = "multi-city" },
			wantErr: ValidationError("tripType must be one of: one-way, round-trip"),
		},
		{
			name:    "long airport code",
			mutate:  func(r *SearchRequest) { r.Origin = "DELHI" },
			wantErr: ValidationError("origin must be a 3-letter IATA airport code"),
		},
		{
			name: "bad filter time",
			mutate: func(r *SearchRequest) {
				r.Filters = &SearchFilters{DepartureTimeMin: strPtr("6am")}
			},
			wantErr: ValidationError("departureTimeMin must be in HH:MM format"),
		},
		{
			name: "negative max stops",
			mutate: func(r *SearchRequest) {
				r.Filters = &SearchFilters{MaxStops: intPtr(-1)}
			},
			wantErr: ValidationError("maxStops must be at least 0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			req.Normalize()

			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err)

			var ve ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestParams_EchoesNormalizedRequest(t *testing.T) {
	req := validRequest()
	req.Normalize()

	p := req.Params()
	assert.Equal(t, "DEL", p.Origin)
	assert.Equal(t, "BOM", p.Destination)
	assert.Equal(t, "2026-11-15", p.DepartDate)
	assert.Equal(t, 1, p.Passengers)
	assert.Equal(t, TripOneWay, p.TripType)
}
