package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dharmasatrya/skyfinder/internal/providers"
)

const (
	DefaultOfferCacheSize = 2048
	DefaultOfferTTL       = 30 * time.Minute
)

// PricingEntry is what a pricing confirmation needs: the offer exactly as
// the vendor returned it and the price the user was shown.
type PricingEntry struct {
	Offer        providers.FlightOffer
	Dictionaries *providers.Dictionaries
	Price        int
}

// OfferCache maps offer references handed out by a search to the vendor
// offers behind them. Entries live in process memory only.
type OfferCache struct {
	cache *expirable.LRU[string, PricingEntry]
}

func NewOfferCache(maxItems int, ttl time.Duration) *OfferCache {
	if maxItems <= 0 {
		maxItems = DefaultOfferCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultOfferTTL
	}
	return &OfferCache{cache: expirable.NewLRU[string, PricingEntry](maxItems, nil, ttl)}
}

func (c *OfferCache) Get(ref string) (PricingEntry, bool) {
	return c.cache.Get(ref)
}

func (c *OfferCache) Put(ref string, entry PricingEntry) {
	c.cache.Add(ref, entry)
}

func (c *OfferCache) Len() int {
	return c.cache.Len()
}
