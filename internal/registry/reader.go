package registry

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Registry lines run well past a kilobyte; keep scanner buffers generous.
const maxLineBytes = 1 << 20

// ReadStats summarizes one streaming pass over the input files.
type ReadStats struct {
	Lines   int
	Parsed  int
	Skipped int
}

// Reader streams records out of one or more fixed-width registry files.
type Reader struct {
	paths  []string
	logger *zap.Logger
}

// NewReader creates a reader over the given files.
func NewReader(paths []string, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{paths: paths, logger: logger}
}

// Read streams every parseable record to fn in file and line order. fn
// returning false stops the pass early. Unparseable lines are counted and
// skipped; only I/O failures abort the read.
func (r *Reader) Read(ctx context.Context, fn func(rec Record) bool) (ReadStats, error) {
	var stats ReadStats
	for _, path := range r.paths {
		done, err := r.readFile(ctx, path, fn, &stats)
		if err != nil {
			return stats, err
		}
		if done {
			break
		}
	}
	r.logger.Info("registry read complete",
		zap.Int("lines", stats.Lines),
		zap.Int("parsed", stats.Parsed),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (r *Reader) readFile(ctx context.Context, path string, fn func(rec Record) bool, stats *ReadStats) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open registry file %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		default:
		}

		stats.Lines++
		rec, ok := ParseLine(sc.Text())
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Parsed++
		if !fn(rec) {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, fmt.Errorf("scan registry file %s: %w", path, err)
	}
	return false, nil
}
