// Package cache holds the search caches: normalized vendor results in Redis,
// and in-process LRUs for airport answers and priceable offers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/skyfinder/internal/models"
)

// Cache stores normalized vendor results. Only authoritative data is ever
// written; mock results never reach the cache.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool)
	Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error
	Close() error
}

// RedisCache stores the normalized, unfiltered offer list of a vendor search
// under a key derived from the route, dates and passenger count. Entries
// expire after the configured TTL. Empty results are never written, so a
// route the vendor had nothing for is asked again on the next search.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects and pings Redis. An unreachable server is an error;
// callers decide whether to run without a cache.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool) {
	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		if !IsMiss(err) {
			slog.Warn("cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var offers []models.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		slog.Warn("discarding undecodable cache entry", slog.String("error", err.Error()))
		_ = c.client.Del(ctx, Key(req)).Err()
		return nil, false
	}

	return offers, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error {
	if len(offers) == 0 {
		return nil
	}

	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("encode offers: %w", err)
	}

	return c.client.Set(ctx, Key(req), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, offers []models.FlightOffer) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives the cache key from the fields sent to the vendor. Filters and
// pagination are applied after the cache and are not part of the key.
func Key(req models.SearchRequest) string {
	keyData := struct {
		Origin      string
		Destination string
		DepartDate  string
		ReturnDate  string
		Passengers  int
		TripType    string
	}{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		Passengers:  req.Passengers,
		TripType:    req.TripType,
	}

	if req.ReturnDate != nil {
		keyData.ReturnDate = *req.ReturnDate
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "flight:" + hex.EncodeToString(hash[:])
}

// IsMiss reports whether err is a plain cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
