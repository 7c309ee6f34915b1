package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/providers"
	"github.com/dharmasatrya/skyfinder/internal/retry"
)

const pricingEndpoint = "pricing"

// ErrOfferNotFound is returned for references this process never handed
// out, references that have expired, and offers the vendor no longer prices.
var ErrOfferNotFound = errors.New("offer not found")

// Price confirms the current price of an offer returned by an earlier
// search. Mock offers carry no reference and cannot be priced.
func (s *Service) Price(ctx context.Context, ref string) (*models.PricedOfferResponse, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || s.provider == nil {
		return nil, ErrOfferNotFound
	}
	entry, ok := s.offers.Get(ref)
	if !ok {
		return nil, ErrOfferNotFound
	}

	policy := s.config.Retry
	policy.Name = "offer pricing"

	batch, err := retry.Do(ctx, policy, func(ctx context.Context) (*providers.OfferBatch, error) {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, pricingEndpoint); err != nil {
				return nil, err
			}
		}
		return s.provider.PriceOffer(ctx, entry.Offer)
	})
	if err != nil {
		return nil, fmt.Errorf("price offer %s: %w", ref, err)
	}
	if len(batch.Offers) == 0 {
		return nil, ErrOfferNotFound
	}

	dict := batch.Dictionaries
	if dict == nil {
		dict = entry.Dictionaries
	}
	offer, err := s.normalizer.Normalize(batch.Offers[0], dict)
	if err != nil {
		return nil, fmt.Errorf("price offer %s: %w", ref, err)
	}
	offer.Ref = ref

	changed := offer.Price != entry.Price
	slog.Info("offer priced",
		slog.String("ref", ref),
		slog.Int("previous_price", entry.Price),
		slog.Int("price", offer.Price),
		slog.Bool("changed", changed),
	)

	return &models.PricedOfferResponse{
		Success:       true,
		Data:          offer,
		PriceChanged:  changed,
		PreviousPrice: entry.Price,
	}, nil
}
