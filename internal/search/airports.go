package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dharmasatrya/skyfinder/internal/cache"
	"github.com/dharmasatrya/skyfinder/internal/fallback"
	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/providers"
	"github.com/dharmasatrya/skyfinder/internal/ratelimit"
	"github.com/dharmasatrya/skyfinder/internal/reference"
	"github.com/dharmasatrya/skyfinder/internal/retry"
)

const (
	SourceFallback = "fallback"

	locationsEndpoint = "locations"
	minAirportQuery   = 2
)

var ErrAirportNotFound = errors.New("airport not found")

type AirportConfig struct {
	Retry retry.Policy
	Limit int
}

type AirportService struct {
	provider providers.FlightProvider
	cache    *cache.AirportCache
	limiter  *ratelimit.VendorLimiter
	config   AirportConfig
}

func NewAirportService(provider providers.FlightProvider, airportCache *cache.AirportCache, limiter *ratelimit.VendorLimiter, config AirportConfig) *AirportService {
	if config.Retry.MaxAttempts == 0 {
		config.Retry = retry.DefaultPolicy()
		config.Retry.MaxAttempts = 1
	}
	if config.Retry.Name == "" {
		config.Retry.Name = "airport search"
	}
	if config.Limit <= 0 {
		config.Limit = fallback.DefaultAirportLimit
	}
	return &AirportService{
		provider: provider,
		cache:    airportCache,
		limiter:  limiter,
		config:   config,
	}
}

// Search finds airports matching a city or airport name. Vendor failures and
// empty vendor answers fall back to the static table.
func (s *AirportService) Search(ctx context.Context, query string) (*models.AirportResponse, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < minAirportQuery {
		return nil, models.ErrAirportQueryTooShort
	}

	if s.cache != nil {
		if airports, ok := s.cache.Get(q); ok {
			return vendorResponse(airports, s.source()), nil
		}
	}

	if s.provider == nil {
		return s.fallbackResponse(q), nil
	}

	records, err := s.lookup(ctx, q)
	if err != nil {
		slog.Warn("vendor airport search failed, serving fallback airports",
			slog.String("query", q),
			slog.String("error", err.Error()),
		)
		return s.fallbackResponse(q), nil
	}

	airports := toAirports(records)
	if len(airports) == 0 {
		return s.fallbackResponse(q), nil
	}
	if len(airports) > s.config.Limit {
		airports = airports[:s.config.Limit]
	}

	if s.cache != nil {
		s.cache.Put(q, airports)
	}
	return vendorResponse(airports, s.source()), nil
}

func (s *AirportService) source() string {
	if s.provider == nil {
		return SourceFallback
	}
	return s.provider.Name()
}

// Lookup resolves a single IATA code. Unlike Search, a vendor failure is
// returned to the caller.
func (s *AirportService) Lookup(ctx context.Context, code string) (*models.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !isIATACode(code) {
		return nil, models.ErrInvalidAirportCode
	}

	if s.provider != nil {
		records, err := s.lookup(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("lookup airport %s: %w", code, err)
		}
		for _, a := range toAirports(records) {
			if a.IATACode == code {
				return &a, nil
			}
		}
	}

	if a, ok := reference.AirportByCode(code); ok {
		return &a, nil
	}
	return nil, ErrAirportNotFound
}

func (s *AirportService) lookup(ctx context.Context, keyword string) ([]providers.LocationRecord, error) {
	return retry.Do(ctx, s.config.Retry, func(ctx context.Context) ([]providers.LocationRecord, error) {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, locationsEndpoint); err != nil {
				return nil, err
			}
		}
		return s.provider.SearchAirports(ctx, keyword)
	})
}

func (s *AirportService) fallbackResponse(q string) *models.AirportResponse {
	airports := fallback.Airports(q, s.config.Limit)
	return &models.AirportResponse{
		Success:  true,
		Data:     airports,
		Count:    len(airports),
		Source:   SourceFallback,
		Fallback: true,
	}
}

func vendorResponse(airports []models.Airport, source string) *models.AirportResponse {
	return &models.AirportResponse{
		Success: true,
		Data:    airports,
		Count:   len(airports),
		Source:  source,
	}
}

// toAirports converts vendor records into display airports, skipping
// records without a code and repeated codes.
func toAirports(records []providers.LocationRecord) []models.Airport {
	seen := make(map[string]bool, len(records))
	out := make([]models.Airport, 0, len(records))
	for _, r := range records {
		code := strings.ToUpper(strings.TrimSpace(r.IATACode))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, models.Airport{
			IATACode:    code,
			Name:        reference.TitleCase(r.Name),
			CityName:    reference.TitleCase(r.Address.CityName),
			CountryName: reference.TitleCase(r.Address.CountryName),
		})
	}
	return out
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
