// Batch company-name resolution pipeline.
// Loads the candidate pool (CSV export or fixed-width registry files), builds
// the frozen index, resolves the roster concurrently and writes an xlsx
// report. Supports resume via checkpoint and Prometheus metrics.
//
// Usage:
//
//	corpmatch -roster companies.xlsx -report matches.xlsx -workers 8
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/checkpoint"
	"github.com/meridian-data/corpmatch/internal/config"
	"github.com/meridian-data/corpmatch/internal/domain"
	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/index"
	logpkg "github.com/meridian-data/corpmatch/internal/logger"
	"github.com/meridian-data/corpmatch/internal/metrics"
	"github.com/meridian-data/corpmatch/internal/pool"
	"github.com/meridian-data/corpmatch/internal/registry"
	"github.com/meridian-data/corpmatch/internal/report"
	"github.com/meridian-data/corpmatch/internal/roster"
	"github.com/meridian-data/corpmatch/internal/score"
	matcheruc "github.com/meridian-data/corpmatch/internal/usecase/matcher"
	resolveruc "github.com/meridian-data/corpmatch/internal/usecase/resolver"
	"github.com/meridian-data/corpmatch/internal/version"
)

type flags struct {
	poolCSV     string
	rosterPath  string
	reportPath  string
	workers     int
	threshold   int
	metricsPort string
	reset       bool
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.poolCSV, "pool", "", "candidate pool CSV (overrides config)")
	flag.StringVar(&f.rosterPath, "roster", "", "roster file, xlsx or text (overrides config)")
	flag.StringVar(&f.reportPath, "report", "", "output report xlsx (overrides config)")
	flag.IntVar(&f.workers, "workers", 0, "number of parallel match workers (0=NumCPU)")
	flag.IntVar(&f.threshold, "threshold", -1, "minimum fuzzy score 0-100 (overrides config)")
	flag.StringVar(&f.metricsPort, "metrics-port", "", "Prometheus metrics port (empty=disabled)")
	flag.BoolVar(&f.reset, "reset", false, "reset checkpoint and start from scratch")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	applyOverrides(&cfg, f)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, f, logger); err != nil {
		cancel()
		logger.Fatal("batch run failed", zap.Error(err))
	}
}

func applyOverrides(cfg *config.Config, f flags) {
	if f.poolCSV != "" {
		cfg.Input.PoolCSV = f.poolCSV
	}
	if f.rosterPath != "" {
		cfg.Input.Roster = f.rosterPath
	}
	if f.reportPath != "" {
		cfg.Output.Report = f.reportPath
	}
	if f.workers > 0 {
		cfg.Resolver.Workers = f.workers
	}
	if f.threshold >= 0 {
		cfg.Match.Threshold = &f.threshold
	}
}

func run(ctx context.Context, cfg config.Config, f flags, logger *zap.Logger) error {
	start := time.Now()

	logger.Info("starting batch resolution",
		zap.String("version", version.Version),
		zap.Intp("threshold", cfg.Match.Threshold),
		zap.Int("max_candidates", cfg.Match.MaxCandidates),
		zap.Int("workers", cfg.Resolver.Workers),
	)

	reg := prometheus.NewRegistry()
	m := metrics.NewResolver(reg)
	if f.metricsPort != "" {
		srv := serveMetrics(f.metricsPort, reg, logger)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	var tracker *checkpoint.Tracker
	if cfg.Output.Checkpoint != "" {
		var err error
		tracker, err = checkpoint.New(cfg.Output.Checkpoint, cfg.Output.CheckpointSaveEvery, logger)
		if err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
		if f.reset {
			tracker.Reset()
			logger.Info("checkpoint reset, starting from scratch")
		} else if tracker.Get().Done() {
			logger.Info("previous run already complete, use -reset to rerun")
			return nil
		}
	}

	idx, details, skipped, err := stagePool(ctx, cfg, tracker, logger)
	if err != nil {
		return err
	}
	m.IndexedTotal.Set(float64(idx.Size()))
	m.SkippedTotal.Add(float64(skipped))

	results, stats, err := stageResolve(ctx, cfg, idx, tracker, m, logger)
	if err != nil {
		return err
	}

	if err := stageReport(cfg, results, stats, details, start, logger); err != nil {
		return err
	}

	if tracker != nil {
		tracker.Advance(stats.Total, stats.Exact, stats.Fuzzy, stats.Unmatched)
		tracker.Done()
	}

	logger.Info("batch resolution complete",
		zap.Int("total", stats.Total),
		zap.Int("exact", stats.Exact),
		zap.Int("fuzzy", stats.Fuzzy),
		zap.Int("unmatched", stats.Unmatched),
		zap.Float64("match_rate", stats.MatchRate()),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}

// stagePool loads the candidate pool and builds the frozen index. Registry
// sources also yield per-document officer and address details for the report.
func stagePool(ctx context.Context, cfg config.Config, tracker *checkpoint.Tracker, logger *zap.Logger) (*index.Index, map[string]pool.Detail, int, error) {
	if tracker != nil {
		tracker.SetStage("pool")
	}

	var candidates []domain.Candidate
	var details map[string]pool.Detail
	var stats pool.LoadStats
	var err error
	switch {
	case cfg.Input.PoolCSV != "":
		candidates, stats, err = pool.FromCSV(cfg.Input.PoolCSV, logger)
	case len(cfg.Input.RegistryFiles) > 0:
		reader := registry.NewReader(cfg.Input.RegistryFiles, logger)
		candidates, details, stats, err = pool.FromRegistry(ctx, reader, logger)
	default:
		return nil, nil, 0, fmt.Errorf("no candidate pool source configured")
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load candidate pool: %w", err)
	}

	idx := index.Build(candidates, cfg.Match.PrefixLength)
	logger.Info("candidate index built",
		zap.Int("indexed", idx.Size()),
		zap.Int("prefix_length", idx.PrefixLength()),
	)
	return idx, details, stats.Skipped, nil
}

// stageResolve loads the roster and resolves it against the index.
func stageResolve(
	ctx context.Context,
	cfg config.Config,
	idx *index.Index,
	tracker *checkpoint.Tracker,
	m *metrics.Resolver,
	logger *zap.Logger,
) ([]match.Result, match.Statistics, error) {
	if tracker != nil {
		tracker.SetStage("resolve")
	}

	names, err := roster.Load(cfg.Input.Roster, logger)
	if err != nil {
		return nil, match.Statistics{}, fmt.Errorf("load roster: %w", err)
	}
	queries := roster.ToQueries(names)

	scorer, err := score.New(cfg.Match.Scorer)
	if err != nil {
		return nil, match.Statistics{}, fmt.Errorf("create scorer: %w", err)
	}
	matcherSvc := matcheruc.New(idx, scorer, *cfg.Match.Threshold, cfg.Match.MaxCandidates)

	svc := resolveruc.New(matcherSvc, cfg.Resolver.Workers, logger).
		WithMetrics(m).
		WithProgressEvery(cfg.Resolver.ProgressEvery)

	results, stats, err := svc.ResolveAll(ctx, queries)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve roster: %w", err)
	}
	return results, stats, nil
}

// stageReport writes the xlsx report.
func stageReport(cfg config.Config, results []match.Result, stats match.Statistics, details map[string]pool.Detail, start time.Time, logger *zap.Logger) error {
	if cfg.Output.Report == "" {
		logger.Info("no report path configured, skipping report")
		return nil
	}
	if err := report.Write(cfg.Output.Report, results, stats, details, time.Since(start)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", zap.String("path", cfg.Output.Report))
	return nil
}

func serveMetrics(port string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server error", zap.Error(err))
		}
	}()
	return srv
}
