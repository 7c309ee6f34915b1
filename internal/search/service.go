// Package search runs flight and airport searches against the vendor and
// degrades to synthetic data when the vendor cannot answer.
package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/skyfinder/internal/auth"
	"github.com/dharmasatrya/skyfinder/internal/cache"
	"github.com/dharmasatrya/skyfinder/internal/fallback"
	"github.com/dharmasatrya/skyfinder/internal/filter"
	"github.com/dharmasatrya/skyfinder/internal/history"
	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/normalizer"
	"github.com/dharmasatrya/skyfinder/internal/providers"
	"github.com/dharmasatrya/skyfinder/internal/ratelimit"
	"github.com/dharmasatrya/skyfinder/internal/retry"
)

const (
	flightOffersEndpoint  = "flight-offers"
	defaultHistoryTimeout = 5 * time.Second
)

type Config struct {
	Retry          retry.Policy
	MaxResults     int
	Currency       string
	HistoryTimeout time.Duration
}

// Deps are the collaborators of a Service. Provider may be nil, in which
// case every search is served from the fallback generator.
type Deps struct {
	Provider   providers.FlightProvider
	Normalizer *normalizer.Normalizer
	Fallback   *fallback.Generator
	Cache      cache.Cache
	Limiter    *ratelimit.VendorLimiter
	History    history.Store
	Offers     *cache.OfferCache
}

type Service struct {
	provider   providers.FlightProvider
	normalizer *normalizer.Normalizer
	fallback   *fallback.Generator
	cache      cache.Cache
	limiter    *ratelimit.VendorLimiter
	history    history.Store
	offers     *cache.OfferCache
	config     Config

	pending sync.WaitGroup
}

func NewService(deps Deps, config Config) *Service {
	s := &Service{
		provider:   deps.Provider,
		normalizer: deps.Normalizer,
		fallback:   deps.Fallback,
		cache:      deps.Cache,
		limiter:    deps.Limiter,
		history:    deps.History,
		offers:     deps.Offers,
		config:     config,
	}
	if s.normalizer == nil {
		s.normalizer = normalizer.New(normalizer.LinkBuilder{})
	}
	if s.fallback == nil {
		s.fallback = fallback.NewGenerator(fallback.DefaultCount, s.normalizer.Links)
	}
	if s.cache == nil {
		s.cache = cache.NewNoOpCache()
	}
	if s.history == nil {
		s.history = history.NewNoOpStore()
	}
	if s.offers == nil {
		s.offers = cache.NewOfferCache(cache.DefaultOfferCacheSize, cache.DefaultOfferTTL)
	}
	if s.config.Retry.MaxAttempts == 0 {
		s.config.Retry = retry.DefaultPolicy()
	}
	if s.config.Retry.Name == "" {
		s.config.Retry.Name = "flight search"
	}
	if s.config.HistoryTimeout <= 0 {
		s.config.HistoryTimeout = defaultHistoryTimeout
	}
	return s
}

// Search validates req, fetches offers and returns them sorted by price.
// Vendor failures never surface: the response is flagged mock instead.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	offers, mock, cacheHit := s.fetch(ctx, req)

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})

	filtered := filter.Apply(offers, req.Filters)
	page := filter.Paginate(filtered, req.Page, req.PageSize)
	data := page.Items
	if data == nil {
		data = []models.FlightOffer{}
	}

	s.recordHistory(ctx, req, mock, len(filtered))

	duration := time.Since(start)
	slog.Info("flight search completed",
		slog.String("origin", req.Origin),
		slog.String("destination", req.Destination),
		slog.String("depart_date", req.DepartDate),
		slog.Int("results", len(data)),
		slog.Bool("mock", mock),
		slog.Bool("cache_hit", cacheHit),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)

	return &models.SearchResponse{
		Success:      true,
		Data:         data,
		Mock:         mock,
		SearchParams: req.Params(),
		Count:        len(data),
		Meta: models.SearchMeta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			DurationMs: duration.Milliseconds(),
			CacheHit:   cacheHit,
		},
	}, nil
}

func (s *Service) fetch(ctx context.Context, req models.SearchRequest) (offers []models.FlightOffer, mock, cacheHit bool) {
	if cached, ok := s.cache.Get(ctx, req); ok {
		return cached, false, true
	}

	if s.provider == nil {
		slog.Info("no vendor configured, serving fallback flights")
		return s.fallback.GenerateFlights(req.Origin, req.Destination, req.DepartDate), true, false
	}

	query := providers.FlightQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Adults:      req.Passengers,
		Max:         s.config.MaxResults,
		Currency:    s.config.Currency,
	}

	batch, err := retry.Do(ctx, s.config.Retry, func(ctx context.Context) (*providers.OfferBatch, error) {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, flightOffersEndpoint); err != nil {
				return nil, err
			}
		}
		return s.provider.SearchFlights(ctx, query)
	})
	if err != nil {
		slog.Warn("vendor unavailable after retries, serving fallback flights",
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return s.fallback.GenerateFlights(req.Origin, req.Destination, req.DepartDate), true, false
	}

	offers = make([]models.FlightOffer, 0, len(batch.Offers))
	for _, raw := range batch.Offers {
		offer, err := s.normalizer.Normalize(raw, batch.Dictionaries)
		if err != nil {
			slog.Warn("dropping offer", slog.String("error", err.Error()))
			continue
		}
		offer.Ref = uuid.NewString()
		s.offers.Put(offer.Ref, cache.PricingEntry{
			Offer:        raw,
			Dictionaries: batch.Dictionaries,
			Price:        offer.Price,
		})
		offers = append(offers, offer)
	}

	if err := s.cache.Set(ctx, req, offers); err != nil {
		slog.Warn("cache write failed", slog.String("error", err.Error()))
	}
	return offers, false, false
}

// recordHistory writes in the background with its own deadline so that a
// slow store never delays the response.
func (s *Service) recordHistory(ctx context.Context, req models.SearchRequest, mock bool, count int) {
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return
	}
	entry := history.NewEntry(user.ID, req, mock, count)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.HistoryTimeout)
		defer cancel()

		if err := s.history.Record(writeCtx, entry); err != nil {
			slog.Warn("search history write failed",
				slog.String("user_id", entry.UserID),
				slog.String("backend", s.history.Backend()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait blocks until background history writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}
