// Package ratelimit throttles outbound vendor calls. Every retry attempt
// waits on the limiter, so a burst of failing searches cannot hammer the
// vendor.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig matches the Amadeus self-service test tier (10 TPS).
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		Burst:             10,
	}
}

// VendorLimiter holds one token bucket per vendor endpoint.
type VendorLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

func NewVendorLimiter(cfg Config) *VendorLimiter {
	return &VendorLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (v *VendorLimiter) limiter(endpoint string) *rate.Limiter {
	v.mu.RLock()
	l, ok := v.limiters[endpoint]
	v.mu.RUnlock()
	if ok {
		return l
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if l, ok = v.limiters[endpoint]; ok {
		return l
	}
	l = newLimiter(v.defaults)
	v.limiters[endpoint] = l
	return l
}

// SetLimit overrides the budget for one endpoint.
func (v *VendorLimiter) SetLimit(endpoint string, cfg Config) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.limiters[endpoint] = newLimiter(cfg)
}

// Wait blocks until the endpoint may be called or ctx is done.
func (v *VendorLimiter) Wait(ctx context.Context, endpoint string) error {
	if err := v.limiter(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", endpoint, err)
	}
	return nil
}

// newLimiter treats a non-positive rate as unlimited.
func newLimiter(cfg Config) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}
