package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfinder/internal/retry"
)

type HealthConfig struct {
	AmadeusConfigured bool   `json:"amadeusConfigured"`
	CacheEnabled      bool   `json:"cacheEnabled"`
	HistoryBackend    string `json:"historyBackend"`
	AuthEnabled       bool   `json:"authEnabled"`
}

type HealthRetry struct {
	MaxAttempts    int   `json:"maxAttempts"`
	DelayMs        int64 `json:"delayMs"`
	RetryableCodes []int `json:"retryableCodes"`
}

type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Version   string       `json:"version"`
	Config    HealthConfig `json:"config"`
	Retry     HealthRetry  `json:"retry"`
}

// HealthHandler reports which optional integrations are configured. It never
// contacts them.
type HealthHandler struct {
	version string
	config  HealthConfig
	retry   HealthRetry
	now     func() time.Time
}

func NewHealthHandler(version string, config HealthConfig, policy retry.Policy) *HealthHandler {
	return &HealthHandler{
		version: version,
		config:  config,
		retry: HealthRetry{
			MaxAttempts:    policy.MaxAttempts,
			DelayMs:        policy.Delay.Milliseconds(),
			RetryableCodes: policy.RetryableStatus,
		},
		now: time.Now,
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Config:    h.config,
		Retry:     h.retry,
	})
}
