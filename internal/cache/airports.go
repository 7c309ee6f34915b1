package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dharmasatrya/skyfinder/internal/models"
)

// AirportCache keeps recent vendor airport answers in process memory.
type AirportCache struct {
	cache *expirable.LRU[string, []models.Airport]
}

func NewAirportCache(maxItems int, ttl time.Duration) *AirportCache {
	if maxItems <= 0 {
		maxItems = 256
	}
	return &AirportCache{cache: expirable.NewLRU[string, []models.Airport](maxItems, nil, ttl)}
}

func (c *AirportCache) Get(query string) ([]models.Airport, bool) {
	return c.cache.Get(airportKey(query))
}

func (c *AirportCache) Put(query string, airports []models.Airport) {
	c.cache.Add(airportKey(query), airports)
}

func (c *AirportCache) Len() int {
	return c.cache.Len()
}

func airportKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
