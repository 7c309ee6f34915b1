// Package retry runs vendor calls with a bounded, fixed-delay retry policy.
// Calls are independent; no failure state is shared between them.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/dharmasatrya/skyfinder/internal/providers"
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 2 * time.Second
)

// DefaultRetryableStatus lists the vendor statuses worth another attempt.
var DefaultRetryableStatus = []int{429, 502, 503, 504}

type Policy struct {
	Name            string
	MaxAttempts     int
	Delay           time.Duration
	RetryableStatus []int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     DefaultMaxAttempts,
		Delay:           DefaultDelay,
		RetryableStatus: slices.Clone(DefaultRetryableStatus),
	}
}

// Do calls op until it succeeds, returns a non-retryable error, or the
// attempt budget is spent. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		retryable := p.Retryable(err)
		slog.Warn("attempt failed",
			slog.String("operation", p.Name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Bool("retryable", retryable),
			slog.String("error", err.Error()),
		)

		if !retryable || attempt == attempts {
			return zero, err
		}

		timer := time.NewTimer(p.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// Retryable reports whether err is worth another attempt under p.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var perr *providers.ProviderError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case providers.KindTransient:
			return perr.StatusCode == 0 || slices.Contains(p.RetryableStatus, perr.StatusCode)
		case providers.KindPermanent:
			return false
		}
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") || strings.Contains(msg, "timeout")
}
