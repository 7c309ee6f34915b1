package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	echoadapter "github.com/awslabs/aws-lambda-go-api-proxy/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/skyfinder/internal/auth"
	"github.com/dharmasatrya/skyfinder/internal/cache"
	"github.com/dharmasatrya/skyfinder/internal/config"
	"github.com/dharmasatrya/skyfinder/internal/fallback"
	"github.com/dharmasatrya/skyfinder/internal/handler"
	"github.com/dharmasatrya/skyfinder/internal/history"
	"github.com/dharmasatrya/skyfinder/internal/logging"
	"github.com/dharmasatrya/skyfinder/internal/normalizer"
	"github.com/dharmasatrya/skyfinder/internal/providers"
	"github.com/dharmasatrya/skyfinder/internal/ratelimit"
	"github.com/dharmasatrya/skyfinder/internal/retry"
	"github.com/dharmasatrya/skyfinder/internal/search"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("skyfinder exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closeLog, err := logging.Setup(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		FilePath:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Server.RunMode == config.RunModeLambda {
		slog.Info("starting in lambda mode")
		adapter := echoadapter.New(a.echo)
		lambda.StartWithOptions(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		}, lambda.WithContext(ctx))
		return nil
	}

	return a.serve(ctx, cfg)
}

type app struct {
	echo    *echo.Echo
	flights *search.Service
	cache   cache.Cache
	history history.Store
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	var provider providers.FlightProvider
	if cfg.Amadeus.Configured() {
		amadeus, err := providers.NewAmadeusProvider(providers.AmadeusConfig{
			ClientID:     cfg.Amadeus.APIKey,
			ClientSecret: cfg.Amadeus.APISecret,
			BaseURL:      cfg.Amadeus.ResolvedBaseURL(),
			Timeout:      cfg.Amadeus.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init amadeus: %w", err)
		}
		provider = amadeus
		slog.Info("amadeus provider enabled", slog.String("base_url", cfg.Amadeus.ResolvedBaseURL()))
	} else {
		slog.Warn("amadeus credentials missing, serving fallback data only")
	}

	var flightCache cache.Cache = cache.NewNoOpCache()
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			slog.Warn("redis unavailable, cache disabled", slog.String("error", err.Error()))
		} else {
			flightCache = redisCache
			slog.Info("redis cache enabled",
				slog.String("addr", cfg.Cache.RedisHost+":"+cfg.Cache.RedisPort),
				slog.Duration("ttl", cfg.Cache.TTL))
		}
	}

	store, err := history.Open(ctx, history.Options{
		Backend:     cfg.History.Backend,
		DatabaseURL: cfg.History.DatabaseURL,
		Table:       cfg.History.Table,
		Region:      cfg.History.Region,
		Retention:   cfg.History.Retention,
	})
	if err != nil {
		_ = flightCache.Close()
		return nil, fmt.Errorf("open history store: %w", err)
	}
	slog.Info("search history", slog.String("backend", store.Backend()))

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.JWTPublicKey,
		Issuer:       cfg.Auth.Issuer,
	})
	if err != nil {
		_ = flightCache.Close()
		_ = store.Close()
		return nil, err
	}

	limiter := ratelimit.NewVendorLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.Amadeus.RPS,
		Burst:             cfg.Amadeus.Burst,
	})

	links := normalizer.LinkBuilder{BaseURL: cfg.Booking.BaseURL, AffiliateID: cfg.Booking.AffiliateID}
	flightRetry := retry.DefaultPolicy()
	flightRetry.MaxAttempts = cfg.Retry.MaxAttempts
	flightRetry.Delay = cfg.Retry.Delay

	flights := search.NewService(search.Deps{
		Provider:   provider,
		Normalizer: normalizer.New(links),
		Fallback:   fallback.NewGenerator(cfg.Fallback.Count, links),
		Cache:      flightCache,
		Limiter:    limiter,
		History:    store,
		Offers:     cache.NewOfferCache(cfg.Cache.OfferSize, cfg.Cache.OfferTTL),
	}, search.Config{
		Retry:          flightRetry,
		MaxResults:     cfg.Amadeus.MaxResults,
		Currency:       cfg.Amadeus.Currency,
		HistoryTimeout: cfg.History.Timeout,
	})

	airportRetry := flightRetry
	airportRetry.Name = "airport search"
	airportRetry.MaxAttempts = cfg.Retry.AirportMaxAttempts
	airports := search.NewAirportService(provider,
		cache.NewAirportCache(cfg.Cache.AirportSize, cfg.Cache.AirportTTL),
		limiter,
		search.AirportConfig{Retry: airportRetry})

	health := handler.NewHealthHandler(version, handler.HealthConfig{
		AmadeusConfigured: provider != nil,
		CacheEnabled:      redisInUse(flightCache),
		HistoryBackend:    store.Backend(),
		AuthEnabled:       verifier != nil,
	}, flightRetry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(auth.Middleware(verifier))

	handler.Register(e,
		handler.NewSearchHandler(flights),
		handler.NewPricingHandler(flights),
		handler.NewAirportHandler(airports),
		health)

	return &app{
		echo:    e,
		flights: flights,
		cache:   flightCache,
		history: store,
	}, nil
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests and pending history writes.
func (a *app) serve(ctx context.Context, cfg config.Config) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting skyfinder", slog.String("port", cfg.Server.Port), slog.String("version", version))
		if err := a.echo.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *app) close() {
	a.flights.Wait()
	if err := a.history.Close(); err != nil {
		slog.Warn("close history store", slog.String("error", err.Error()))
	}
	if err := a.cache.Close(); err != nil {
		slog.Warn("close cache", slog.String("error", err.Error()))
	}
}

// redisInUse reports the cache actually serving searches, which is the no-op
// cache when Redis was enabled but unreachable at startup.
func redisInUse(c cache.Cache) bool {
	_, ok := c.(*cache.RedisCache)
	return ok
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
