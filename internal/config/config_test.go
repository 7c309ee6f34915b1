package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfinder/internal/providers"
)

// clearEnv blanks every key Load reads so the host environment cannot leak
// into a test. t.Setenv restores the original values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "RUN_MODE", "SHUTDOWN_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS",
		"AMADEUS_API_KEY", "AMADEUS_API_SECRET", "AMADEUS_ENV", "AMADEUS_BASE_URL", "AMADEUS_TIMEOUT",
		"AMADEUS_MAX_RESULTS", "AMADEUS_CURRENCY", "AMADEUS_RPS", "AMADEUS_BURST",
		"RETRY_MAX_ATTEMPTS", "RETRY_DELAY", "AIRPORT_MAX_ATTEMPTS",
		"CACHE_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TTL",
		"AIRPORT_CACHE_SIZE", "AIRPORT_CACHE_TTL", "OFFER_CACHE_SIZE", "OFFER_CACHE_TTL", "AFFILIATE_ID", "BOOKING_BASE_URL",
		"HISTORY_BACKEND", "DATABASE_URL", "HISTORY_TABLE", "AWS_REGION", "HISTORY_TIMEOUT", "HISTORY_RETENTION",
		"AUTH_JWT_SECRET", "AUTH_JWT_PUBLIC_KEY", "AUTH_ISSUER", "FALLBACK_COUNT",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, RunModeServer, cfg.Server.RunMode)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
	assert.Equal(t, 1, cfg.Retry.AirportMaxAttempts)
	assert.Equal(t, 8, cfg.Fallback.Count)
	assert.Equal(t, "none", cfg.History.Backend)
	assert.Equal(t, "INR", cfg.Amadeus.Currency)
	assert.Equal(t, 30*time.Minute, cfg.Cache.OfferTTL)
	assert.False(t, cfg.Amadeus.Configured())
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, providers.AmadeusTestURL, cfg.Amadeus.ResolvedBaseURL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("AMADEUS_API_KEY", "key")
	t.Setenv("AMADEUS_API_SECRET", "secret")
	t.Setenv("AMADEUS_ENV", "production")
	t.Setenv("AMADEUS_RPS", "2.5")
	t.Setenv("RETRY_DELAY", "500ms")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_TTL", "1m")
	t.Setenv("HISTORY_BACKEND", "DynamoDB")
	t.Setenv("HISTORY_TABLE", "search-history")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Amadeus.Configured())
	assert.Equal(t, providers.AmadeusProductionURL, cfg.Amadeus.ResolvedBaseURL())
	assert.InDelta(t, 2.5, cfg.Amadeus.RPS, 0.0001)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "dynamodb", cfg.History.Backend)
}

func TestLoad_MalformedNumbersKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "three")
	t.Setenv("RETRY_DELAY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "skyfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
amadeus:
  base_url: http://localhost:4010/
  max_results: 50
retry:
  delay: 250ms
booking:
  affiliate_id: partner-1
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Server.Port)
	assert.Equal(t, "http://localhost:4010", cfg.Amadeus.ResolvedBaseURL())
	assert.Equal(t, 50, cfg.Amadeus.MaxResults)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, "partner-1", cfg.Booking.AffiliateID)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"run mode", func(c *Config) { c.Server.RunMode = "cron" }, "RUN_MODE"},
		{"amadeus env", func(c *Config) { c.Amadeus.Env = "staging" }, "AMADEUS_ENV"},
		{"history backend", func(c *Config) { c.History.Backend = "mongo" }, "HISTORY_BACKEND"},
		{"postgres needs dsn", func(c *Config) { c.History.Backend = "postgres" }, "DATABASE_URL"},
		{"dynamodb needs table", func(c *Config) { c.History.Backend = "dynamodb" }, "HISTORY_TABLE"},
		{"attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "RETRY_MAX_ATTEMPTS"},
		{"fallback count", func(c *Config) { c.Fallback.Count = 0 }, "FALLBACK_COUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
