// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/booking"
	"github.com/capitalize-ai/cruise-concierge/internal/config"
	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/estimate"
	"github.com/capitalize-ai/cruise-concierge/internal/handler"
	"github.com/capitalize-ai/cruise-concierge/internal/llm"
	natsclient "github.com/capitalize-ai/cruise-concierge/internal/nats"
	"github.com/capitalize-ai/cruise-concierge/internal/nlu"
	"github.com/capitalize-ai/cruise-concierge/internal/service"
	"github.com/capitalize-ai/cruise-concierge/internal/session"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
	"github.com/capitalize-ai/cruise-concierge/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting cruise concierge")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "cruise-concierge", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer func() { _ = tracing.Shutdown(ctx, tp) }()
		}
	}

	checks := map[string]handler.ReadinessCheck{}

	// Sessions
	var store session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisStore, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisStore.Close() }()
		checks["redis"] = redisStore.Ping
		store = redisStore
	default:
		store = session.NewMemoryStore(cfg.SessionMaxEntries, cfg.SessionTTL)
	}

	// Booking event log
	var opts service.Options
	if cfg.EventsEnabled {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		checks["nats"] = func(context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		}
		opts.Events = streamManager
		opts.Replay = streamManager
	}

	// Free-text resolution
	if resolver := newResolver(cfg, log); resolver != nil {
		opts.Resolver = resolver
	}

	// Booking engine and estimates
	cruiseClient := cruise.NewClient(cruise.Config{
		BaseURL:           cfg.CruiseBaseURL,
		Timeout:           cfg.OutboundTimeout,
		RequestsPerSecond: cfg.OutboundRPS,
		MaxRetries:        cfg.OutboundRetries,
	}, log)
	estimates := estimate.NewCachedSource(estimate.NewClient(estimate.Config{
		BaseURL:    cfg.EstimateBaseURL,
		APIKey:     cfg.EstimateAPIKey,
		Timeout:    cfg.OutboundTimeout,
		MaxRetries: cfg.OutboundRetries,
	}, log), cfg.EstimateCacheSize, cfg.EstimateCacheTTL)

	bookingSvc := booking.NewService(booking.Deps{
		Searcher:    cruiseClient,
		Pricer:      cruiseClient,
		HoldChecker: cruiseClient,
		HoldPlacer:  cruiseClient,
		Profiles:    cruiseClient,
		Estimates:   estimates,
		Deals:       cruiseClient,
	}, booking.Guest{
		FirstName:        cfg.GuestFirstName,
		LastName:         cfg.GuestLastName,
		Gender:           cfg.GuestGender,
		Street:           cfg.GuestStreet,
		Zip:              cfg.GuestZip,
		State:            cfg.GuestState,
		EmailDomain:      cfg.GuestEmailDomain,
		FallbackPhone:    cfg.FallbackPhone,
		EmbarkationPort:  cfg.DefaultEmbarkPort,
		DefaultPartySize: cfg.GuestPartySize,
	}, log)

	turnSvc := service.NewTurnService(booking.NewDispatcher(bookingSvc), store, opts, log)

	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:         cfg.JWTSecret,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		CORSOrigins:       cfg.CORSOrigins,
	},
		handler.NewHealthHandler(checks),
		handler.NewTurnHandler(turnSvc, log),
		handler.NewSessionHandler(turnSvc, log),
		log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// newResolver builds the utterance resolver from whichever LLM key is set,
// preferring DEFAULT_LLM. It returns nil when none is configured.
func newResolver(cfg *config.Config, log *logger.Logger) *nlu.Resolver {
	keys := map[llm.Provider]string{
		llm.ProviderAnthropic: cfg.AnthropicAPIKey,
		llm.ProviderOpenAI:    cfg.OpenAIAPIKey,
	}

	providers := []llm.Provider{llm.Provider(cfg.DefaultLLM), llm.ProviderAnthropic, llm.ProviderOpenAI}
	for _, provider := range providers {
		key := keys[provider]
		if key == "" {
			continue
		}
		client, err := llm.NewClient(provider, key)
		if err != nil {
			log.Warn("failed to create LLM client", zap.String("provider", string(provider)), zap.Error(err))
			continue
		}
		log.Info("utterance resolution enabled", zap.String("provider", client.Name()))
		return nlu.NewResolver(client, cfg.LLMModel, log)
	}

	log.Info("no LLM configured, utterance resolution disabled")
	return nil
}
