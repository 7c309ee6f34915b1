// Package config loads service settings from an optional YAML file and the
// environment. Environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/skyfinder/internal/providers"
)

const (
	RunModeServer = "server"
	RunModeLambda = "lambda"

	AmadeusEnvTest       = "test"
	AmadeusEnvProduction = "production"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Amadeus  AmadeusConfig  `yaml:"amadeus"`
	Retry    RetryConfig    `yaml:"retry"`
	Cache    CacheConfig    `yaml:"cache"`
	Booking  BookingConfig  `yaml:"booking"`
	History  HistoryConfig  `yaml:"history"`
	Auth     AuthConfig     `yaml:"auth"`
	Fallback FallbackConfig `yaml:"fallback"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	RunMode         string        `yaml:"run_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type AmadeusConfig struct {
	APIKey     string        `yaml:"api_key"`
	APISecret  string        `yaml:"api_secret"`
	Env        string        `yaml:"env"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"max_results"`
	Currency   string        `yaml:"currency"`
	RPS        float64       `yaml:"rps"`
	Burst      int           `yaml:"burst"`
}

// Configured reports whether both credentials are present. Without them the
// service runs on fallback data only.
func (a AmadeusConfig) Configured() bool {
	return a.APIKey != "" && a.APISecret != ""
}

// ResolvedBaseURL returns BaseURL if set, otherwise the host for Env.
func (a AmadeusConfig) ResolvedBaseURL() string {
	if a.BaseURL != "" {
		return strings.TrimSuffix(a.BaseURL, "/")
	}
	if strings.EqualFold(a.Env, AmadeusEnvProduction) {
		return providers.AmadeusProductionURL
	}
	return providers.AmadeusTestURL
}

type RetryConfig struct {
	MaxAttempts        int           `yaml:"max_attempts"`
	Delay              time.Duration `yaml:"delay"`
	AirportMaxAttempts int           `yaml:"airport_max_attempts"`
}

type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisHost     string        `yaml:"redis_host"`
	RedisPort     string        `yaml:"redis_port"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
	AirportSize   int           `yaml:"airport_size"`
	AirportTTL    time.Duration `yaml:"airport_ttl"`
	OfferSize     int           `yaml:"offer_size"`
	OfferTTL      time.Duration `yaml:"offer_ttl"`
}

type BookingConfig struct {
	AffiliateID string `yaml:"affiliate_id"`
	BaseURL     string `yaml:"base_url"`
}

type HistoryConfig struct {
	Backend     string        `yaml:"backend"`
	DatabaseURL string        `yaml:"database_url"`
	Table       string        `yaml:"table"`
	Region      string        `yaml:"region"`
	Timeout     time.Duration `yaml:"timeout"`
	Retention   time.Duration `yaml:"retention"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	JWTPublicKey string `yaml:"jwt_public_key"`
	Issuer       string `yaml:"issuer"`
}

// Enabled reports whether bearer tokens are verified at all.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWTPublicKey != ""
}

type FallbackConfig struct {
	Count int `yaml:"count"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			RunMode:         RunModeServer,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Amadeus: AmadeusConfig{
			Env:        AmadeusEnvTest,
			Timeout:    10 * time.Second,
			MaxResults: 20,
			Currency:   "INR",
			RPS:        10,
			Burst:      10,
		},
		Retry: RetryConfig{
			MaxAttempts:        3,
			Delay:              2 * time.Second,
			AirportMaxAttempts: 1,
		},
		Cache: CacheConfig{
			Enabled:     false,
			RedisHost:   "localhost",
			RedisPort:   "6379",
			TTL:         5 * time.Minute,
			AirportSize: 256,
			AirportTTL:  time.Hour,
			OfferSize:   2048,
			OfferTTL:    30 * time.Minute,
		},
		History: HistoryConfig{
			Backend:   "none",
			Region:    "ap-south-1",
			Timeout:   5 * time.Second,
			Retention: 90 * 24 * time.Hour,
		},
		Fallback: FallbackConfig{
			Count: 8,
		},
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then applies
// environment overrides and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.RunMode = getEnv("RUN_MODE", cfg.Server.RunMode)
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays)
	cfg.Log.Compress = getEnvBool("LOG_COMPRESS", cfg.Log.Compress)

	cfg.Amadeus.APIKey = getEnv("AMADEUS_API_KEY", cfg.Amadeus.APIKey)
	cfg.Amadeus.APISecret = getEnv("AMADEUS_API_SECRET", cfg.Amadeus.APISecret)
	cfg.Amadeus.Env = getEnv("AMADEUS_ENV", cfg.Amadeus.Env)
	cfg.Amadeus.BaseURL = getEnv("AMADEUS_BASE_URL", cfg.Amadeus.BaseURL)
	cfg.Amadeus.Timeout = getEnvDuration("AMADEUS_TIMEOUT", cfg.Amadeus.Timeout)
	cfg.Amadeus.MaxResults = getEnvInt("AMADEUS_MAX_RESULTS", cfg.Amadeus.MaxResults)
	cfg.Amadeus.Currency = getEnv("AMADEUS_CURRENCY", cfg.Amadeus.Currency)
	cfg.Amadeus.RPS = getEnvFloat("AMADEUS_RPS", cfg.Amadeus.RPS)
	cfg.Amadeus.Burst = getEnvInt("AMADEUS_BURST", cfg.Amadeus.Burst)

	cfg.Retry.MaxAttempts = getEnvInt("RETRY_MAX_ATTEMPTS", cfg.Retry.MaxAttempts)
	cfg.Retry.Delay = getEnvDuration("RETRY_DELAY", cfg.Retry.Delay)
	cfg.Retry.AirportMaxAttempts = getEnvInt("AIRPORT_MAX_ATTEMPTS", cfg.Retry.AirportMaxAttempts)

	cfg.Cache.Enabled = getEnvBool("CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.RedisHost = getEnv("REDIS_HOST", cfg.Cache.RedisHost)
	cfg.Cache.RedisPort = getEnv("REDIS_PORT", cfg.Cache.RedisPort)
	cfg.Cache.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = getEnvInt("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.TTL = getEnvDuration("REDIS_TTL", cfg.Cache.TTL)
	cfg.Cache.AirportSize = getEnvInt("AIRPORT_CACHE_SIZE", cfg.Cache.AirportSize)
	cfg.Cache.AirportTTL = getEnvDuration("AIRPORT_CACHE_TTL", cfg.Cache.AirportTTL)
	cfg.Cache.OfferSize = getEnvInt("OFFER_CACHE_SIZE", cfg.Cache.OfferSize)
	cfg.Cache.OfferTTL = getEnvDuration("OFFER_CACHE_TTL", cfg.Cache.OfferTTL)

	cfg.Booking.AffiliateID = getEnv("AFFILIATE_ID", cfg.Booking.AffiliateID)
	cfg.Booking.BaseURL = getEnv("BOOKING_BASE_URL", cfg.Booking.BaseURL)

	cfg.History.Backend = strings.ToLower(getEnv("HISTORY_BACKEND", cfg.History.Backend))
	cfg.History.DatabaseURL = getEnv("DATABASE_URL", cfg.History.DatabaseURL)
	cfg.History.Table = getEnv("HISTORY_TABLE", cfg.History.Table)
	cfg.History.Region = getEnv("AWS_REGION", cfg.History.Region)
	cfg.History.Timeout = getEnvDuration("HISTORY_TIMEOUT", cfg.History.Timeout)
	cfg.History.Retention = getEnvDuration("HISTORY_RETENTION", cfg.History.Retention)

	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTPublicKey = getEnv("AUTH_JWT_PUBLIC_KEY", cfg.Auth.JWTPublicKey)
	cfg.Auth.Issuer = getEnv("AUTH_ISSUER", cfg.Auth.Issuer)

	cfg.Fallback.Count = getEnvInt("FALLBACK_COUNT", cfg.Fallback.Count)
}

func (c Config) Validate() error {
	var errs []error

	switch c.Server.RunMode {
	case RunModeServer, RunModeLambda:
	default:
		errs = append(errs, fmt.Errorf("RUN_MODE must be %q or %q, got %q", RunModeServer, RunModeLambda, c.Server.RunMode))
	}
	switch strings.ToLower(c.Amadeus.Env) {
	case AmadeusEnvTest, AmadeusEnvProduction:
	default:
		errs = append(errs, fmt.Errorf("AMADEUS_ENV must be %q or %q, got %q", AmadeusEnvTest, AmadeusEnvProduction, c.Amadeus.Env))
	}
	switch c.History.Backend {
	case "none", "postgres", "dynamodb":
	default:
		errs = append(errs, fmt.Errorf("HISTORY_BACKEND must be none, postgres or dynamodb, got %q", c.History.Backend))
	}
	if c.History.Backend == "postgres" && c.History.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required for the postgres history backend"))
	}
	if c.History.Backend == "dynamodb" && c.History.Table == "" {
		errs = append(errs, errors.New("HISTORY_TABLE is required for the dynamodb history backend"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("RETRY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, errors.New("RETRY_DELAY must not be negative"))
	}
	if c.Amadeus.MaxResults < 1 {
		errs = append(errs, errors.New("AMADEUS_MAX_RESULTS must be at least 1"))
	}
	if c.Fallback.Count < 1 {
		errs = append(errs, errors.New("FALLBACK_COUNT must be at least 1"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
