// Package resolver drives the matcher over a whole roster.
package resolver

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/metrics"
)

// DefaultProgressEvery is the progress-log interval in resolved queries.
const DefaultProgressEvery = 1000

// Service fans a roster out across a worker pool. Queries are independent:
// every worker holds only a shared reference to the frozen index (through the
// Matcher) and writes to its own result slots, so no shared state is mutated.
type Service struct {
	matcher       Matcher
	workers       int
	progressEvery int
	logger        *zap.Logger
	metrics       *metrics.Resolver
}

// New creates a resolver. workers <= 0 selects NumCPU.
func New(matcher Matcher, workers int, logger *zap.Logger) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		matcher:       matcher,
		workers:       workers,
		progressEvery: DefaultProgressEvery,
		logger:        logger,
	}
}

// WithMetrics attaches prometheus instrumentation.
func (s *Service) WithMetrics(m *metrics.Resolver) *Service {
	s.metrics = m
	return s
}

// WithProgressEvery sets the progress-log interval (0 disables it).
func (s *Service) WithProgressEvery(n int) *Service {
	s.progressEvery = n
	return s
}

// ResolveAll applies the matcher to every query and returns one result per
// query in input order, plus the statistics reduction. Each worker folds its
// own partial Statistics; partials merge associatively, so worker scheduling
// never changes the totals, and results are written by input position, so
// ordering never depends on worker interleaving.
//
// On context cancellation the returned slice is trimmed to the prefix of
// queries that were handed to workers, all of which are resolved, together
// with ctx.Err(); rerunning the remaining queries later is safe because the
// index is never mutated.
func (s *Service) ResolveAll(ctx context.Context, queries []match.Query) ([]match.Result, match.Statistics, error) {
	results := make([]match.Result, len(queries))
	partials := make([]match.Statistics, s.workers)

	jobs := make(chan int, s.workers*2)
	var wg sync.WaitGroup
	var resolved atomic.Int64

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var stats match.Statistics
			for i := range jobs {
				start := time.Now()
				r := s.matcher.Match(queries[i])
				results[i] = r
				stats.Observe(r)

				if s.metrics != nil {
					s.metrics.MatchDuration.Observe(time.Since(start).Seconds())
					s.metrics.QueriesResolved.WithLabelValues(string(r.Kind())).Inc()
				}

				n := resolved.Add(1)
				if s.progressEvery > 0 && n%int64(s.progressEvery) == 0 {
					s.logger.Info("resolving roster",
						zap.Int64("resolved", n),
						zap.Int("total", len(queries)),
					)
				}
			}
			partials[w] = stats
		}(w)
	}

	var err error
	fed := 0
feed:
	for i := range queries {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
			fed++
		}
	}
	close(jobs)
	wg.Wait()

	var stats match.Statistics
	for _, p := range partials {
		stats = stats.Merge(p)
	}
	// Workers drain the jobs channel after close, so every fed index is resolved.
	return results[:fed], stats, err
}
