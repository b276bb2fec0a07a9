package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"styleme/internal/capture"
	"styleme/internal/catalog"
	"styleme/internal/generation"
	"styleme/internal/handoff"
	"styleme/internal/http/handlers"
	httpapi "styleme/internal/http/httpapi"
	"styleme/internal/infra"
	"styleme/internal/infra/credentials"
	"styleme/internal/infra/geoip"
	"styleme/internal/remote"
	"styleme/internal/session"
	"styleme/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
	}

	rc, err := buildRemote(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure remote generation")
	}
	store, closeStore, err := buildHandoffStore(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure handoff store")
	}
	defer closeStore()

	var publisher generation.Publisher = storage.DataURIPublisher{}
	if cfg.StoragePath != "" {
		files, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare storage")
		}
		publisher = storage.NewFilePublisher(files, cfg.StorageBaseURL)
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	cat := catalog.Default()
	orch := generation.New(generation.Options{
		Catalog:          cat,
		Remote:           rc,
		Publisher:        publisher,
		Pacing:           cfg.RemotePacing,
		ProgressInterval: cfg.ProgressInterval,
		Logger:           logger.With().Str("component", "generation").Logger(),
	})
	adapter := capture.NewAdapter(capture.Options{MaxBytes: cfg.MaxUploadBytes, Logger: logger})
	sessions := session.NewRegistry(session.Deps{
		Orchestrator: orch,
		Capture:      adapter,
		Store:        store,
		Logger:       logger.With().Str("component", "session").Logger(),
	})

	app := handlers.NewApp(handlers.App{
		Logger:          logger,
		Catalog:         cat,
		Sessions:        sessions,
		Capture:         adapter,
		Remote:          rc,
		Handoff:         store,
		GenerateTimeout: cfg.GenerateTimeout,
		RequireOwner:    cfg.JWTSecret != "",
	})
	defer app.Close()

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		JWTSecret:       cfg.JWTSecret,
		StaticDir:       cfg.StoragePath,
	})

	server := infra.NewHTTPServer(cfg, router)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, cfg.SessionTTL, logger)

	go func() {
		logger.Info().
			Str("remote", rc.Name()).
			Str("handoff", cfg.HandoffBackend).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildRemote(ctx context.Context, cfg *infra.Config, pool *pgxpool.Pool, logger zerolog.Logger) (remote.Client, error) {
	logger = logger.With().Str("component", "remote").Logger()
	switch cfg.RemoteProvider {
	case infra.RemoteProviderHTTP:
		return remote.NewHTTPClient(remote.HTTPOptions{
			BaseURL: cfg.RemoteBaseURL,
			Timeout: cfg.RemoteTimeout,
			Logger:  logger,
		})
	case infra.RemoteProviderGemini:
		var creds *credentials.Store
		if pool != nil {
			creds = credentials.NewStore(infra.NewSQLRunner(pool, logger))
		}
		key, err := creds.ResolveGeminiKey(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return remote.NewGeminiClient(ctx, remote.GeminiOptions{
			APIKey:  key,
			Model:   cfg.GeminiModel,
			Timeout: cfg.RemoteTimeout,
			Logger:  logger,
		})
	default:
		return remote.Disabled{}, nil
	}
}

func buildHandoffStore(ctx context.Context, cfg *infra.Config, pool *pgxpool.Pool, logger zerolog.Logger) (handoff.Store, func(), error) {
	switch cfg.HandoffBackend {
	case infra.HandoffBackendRedis:
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return handoff.NewRedisStore(client, "", cfg.HandoffTTL), func() { _ = client.Close() }, nil
	case infra.HandoffBackendPostgres:
		store := handoff.NewPostgresStore(infra.NewSQLRunner(pool, logger.With().Str("component", "handoff").Logger()))
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return handoff.NewMemoryStore(), func() {}, nil
	}
}

func sweepSessions(ctx context.Context, sessions *session.Registry, ttl time.Duration, logger zerolog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(time.Now().Add(-ttl)); n > 0 {
				logger.Info().Int("swept", n).Int("live", sessions.Len()).Msg("expired sessions removed")
			}
		}
	}
}
