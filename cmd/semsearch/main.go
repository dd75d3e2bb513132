package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/semsearch/internal/config"
	dbRedis "github.com/kailas-cloud/semsearch/internal/db/redis"
	"github.com/kailas-cloud/semsearch/internal/domain"
	logpkg "github.com/kailas-cloud/semsearch/internal/logger"
	"github.com/kailas-cloud/semsearch/internal/metrics"
	"github.com/kailas-cloud/semsearch/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/semsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/semsearch/internal/transport/openai"
	"github.com/kailas-cloud/semsearch/internal/transport/pinecone"
	embeddinguc "github.com/kailas-cloud/semsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/semsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/semsearch/internal/usecase/search"
	"github.com/kailas-cloud/semsearch/internal/version"
)

const embeddingProvider = "openai"

func main() {
	// Local runs keep credentials in .env; absence is fine.
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	creds := cfg.Credentials()
	logger.Info("Starting semsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("index_name", creds.IndexName),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)
	if missing := creds.Missing(); len(missing) > 0 {
		logger.Warn("Search credentials incomplete, serving fallback results",
			zap.Strings("missing", missing),
			zap.Error(domain.ErrConfigurationMissing),
		)
	}

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterUpstreamMetrics()

	// One pooled client for both upstreams; per-call deadlines come from the clients.
	httpClient := newUpstreamHTTPClient()

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:         cfg.Embedding.APIKey,
		BaseURL:        cfg.Embedding.BaseURL,
		Model:          cfg.Embedding.Model,
		Dimensions:     cfg.Embedding.Dimensions,
		SendDimensions: cfg.Embedding.SendDimensions,
		Timeout:        cfg.EmbeddingTimeout(),
		Provider:       embeddingProvider,
		HTTPClient:     httpClient,
		Logger:         logger,
	})

	index := pinecone.NewClient(&pinecone.Config{
		APIKey:     cfg.Index.APIKey,
		BaseURL:    cfg.Index.BaseURL,
		IndexName:  cfg.Index.Name,
		Timeout:    cfg.IndexTimeout(),
		HTTPClient: httpClient,
		Logger:     logger,
	})

	// Optional embedding cache
	var cache *dbRedis.Store
	if cfg.Cache.Enabled {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cache.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := buildEmbedder(base, cache, cfg, logger)

	searchSvc := searchuc.New(embedder, index, searchuc.Config{
		Credentials: creds,
		TopK:        cfg.Index.TopK,
		Dimensions:  cfg.Embedding.Dimensions,
		Retry: searchuc.RetryPolicy{
			MaxAttempts: cfg.Search.Retry.MaxAttempts,
			BaseDelay:   time.Duration(cfg.Search.Retry.BaseDelayMS) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.Search.Retry.MaxDelayMS) * time.Millisecond,
		},
		DisableFallback: cfg.Search.DisableFallback,
	}, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is off.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(creds, base, index, cachePinger, logger)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Options{
		MaxTopK: cfg.Index.MaxTopK,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsMiddleware(cfg.HTTP.CORS.AllowedOrigins))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached (optional) -> Instrumented.
func buildEmbedder(
	base domain.Embedder,
	cache *dbRedis.Store,
	cfg config.Config,
	logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if cache != nil {
		embedder = embcache.New(
			base, cache, cfg.Embedding.Model,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, embeddingProvider, cfg.Embedding.Model, logger)
}

func newUpstreamHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 32,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// corsMiddleware answers browser preflights before auth runs.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposedHeaders: []string{
			metrics.DegradedHeader,
			chiTransport.HeaderSearchOutcome,
			chiTransport.HeaderEmbeddingTokens,
			"X-Request-ID",
		},
	}).Handler
}
