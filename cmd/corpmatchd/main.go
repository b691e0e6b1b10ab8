package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/config"
	"github.com/meridian-data/corpmatch/internal/domain"
	"github.com/meridian-data/corpmatch/internal/index"
	logpkg "github.com/meridian-data/corpmatch/internal/logger"
	"github.com/meridian-data/corpmatch/internal/metrics"
	"github.com/meridian-data/corpmatch/internal/pool"
	"github.com/meridian-data/corpmatch/internal/registry"
	"github.com/meridian-data/corpmatch/internal/score"
	chiTransport "github.com/meridian-data/corpmatch/internal/transport/chi"
	matcheruc "github.com/meridian-data/corpmatch/internal/usecase/matcher"
	"github.com/meridian-data/corpmatch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting corpmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Intp("match_threshold", cfg.Match.Threshold),
	)

	ctx := context.Background()

	candidates, stats, err := loadCandidates(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load candidate pool", zap.Error(err))
	}

	idx := index.Build(candidates, cfg.Match.PrefixLength)
	logger.Info("Candidate index built",
		zap.Int("indexed", idx.Size()),
		zap.Int("skipped", stats.Skipped),
		zap.Int("prefix_length", idx.PrefixLength()),
	)

	resolverMetrics := metrics.NewResolver(nil)
	resolverMetrics.IndexedTotal.Set(float64(idx.Size()))
	resolverMetrics.SkippedTotal.Add(float64(stats.Skipped))

	scorer, err := score.New(cfg.Match.Scorer)
	if err != nil {
		logger.Fatal("Failed to create scorer", zap.Error(err))
	}
	matcherSvc := matcheruc.New(idx, scorer, *cfg.Match.Threshold, cfg.Match.MaxCandidates)

	server := chiTransport.NewServer(matcherSvc, idx.Size(), nil, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Router())

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// loadCandidates picks the configured pool source: CSV export or fixed-width
// registry files.
func loadCandidates(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]domain.Candidate, pool.LoadStats, error) {
	switch {
	case cfg.Input.PoolCSV != "":
		return pool.FromCSV(cfg.Input.PoolCSV, logger)
	case len(cfg.Input.RegistryFiles) > 0:
		reader := registry.NewReader(cfg.Input.RegistryFiles, logger)
		candidates, _, stats, err := pool.FromRegistry(ctx, reader, logger)
		return candidates, stats, err
	default:
		return nil, pool.LoadStats{}, fmt.Errorf("no candidate pool source configured")
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
