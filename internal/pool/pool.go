// Package pool loads the candidate pool (document number, company name pairs)
// from its upstream sources.
package pool

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/domain"
	"github.com/meridian-data/corpmatch/internal/normalize"
	"github.com/meridian-data/corpmatch/internal/registry"
)

// LoadStats summarizes one pool load.
type LoadStats struct {
	Loaded  int
	Skipped int
}

// Detail carries the officer and address fields of a registry filing, keyed
// by document number so matched rows in the report can be enriched. CSV pools
// carry no details.
type Detail struct {
	Officer string
	Address string
}

// FromCSV loads candidates from a delimited export. The document-number and
// company-name columns are located by header name ("doc_number",
// "document_number", "company_name", and close variants). Malformed rows are
// skipped and counted, never fatal.
func FromCSV(path string, logger *zap.Logger) ([]domain.Candidate, LoadStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open candidate pool %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read candidate pool header: %w", err)
	}

	docCol, nameCol, err := locateColumns(header)
	if err != nil {
		return nil, LoadStats{}, err
	}

	var candidates []domain.Candidate
	var stats LoadStats
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Skipped++
				logger.Debug("skipping unparsable row",
					zap.Int("line", perr.Line),
					zap.Error(err),
				)
				continue
			}
			return nil, stats, fmt.Errorf("read candidate pool row: %w", err)
		}
		if docCol >= len(row) || nameCol >= len(row) {
			stats.Skipped++
			continue
		}

		c, err := domain.NewCandidate(row[docCol], row[nameCol], normalize.Normalize(row[nameCol]))
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping malformed candidate",
				zap.Int("row", stats.Loaded+stats.Skipped+1),
				zap.Error(err),
			)
			continue
		}
		candidates = append(candidates, c)
		stats.Loaded++
	}

	if len(candidates) == 0 {
		return nil, stats, fmt.Errorf("%s: %w", path, domain.ErrEmptyPool)
	}

	logger.Info("candidate pool loaded",
		zap.String("path", path),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
	)
	return candidates, stats, nil
}

// FromRegistry streams fixed-width registry files into candidates. Lines the
// parser rejects are already counted by the reader; records that fail
// candidate validation add to Skipped here. The returned details map keeps
// the officer and address of each document number (first filing wins, the
// same rule the matcher applies to exact ties).
func FromRegistry(ctx context.Context, r *registry.Reader, logger *zap.Logger) ([]domain.Candidate, map[string]Detail, LoadStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var candidates []domain.Candidate
	details := make(map[string]Detail)
	var skipped int
	readStats, err := r.Read(ctx, func(rec registry.Record) bool {
		c, err := domain.NewCandidate(rec.DocNumber, rec.CompanyName, normalize.Normalize(rec.CompanyName))
		if err != nil {
			skipped++
			return true
		}
		candidates = append(candidates, c)
		if _, ok := details[rec.DocNumber]; !ok {
			details[rec.DocNumber] = detailFrom(rec)
		}
		return true
	})
	if err != nil {
		return nil, nil, LoadStats{}, err
	}

	stats := LoadStats{Loaded: len(candidates), Skipped: readStats.Skipped + skipped}
	if len(candidates) == 0 {
		return nil, nil, stats, domain.ErrEmptyPool
	}

	logger.Info("candidate pool loaded from registry",
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
	)
	return candidates, details, stats, nil
}

// detailFrom folds a record's best-effort fields into a report Detail.
func detailFrom(rec registry.Record) Detail {
	parts := make([]string, 0, 2)
	for _, p := range []string{rec.Address, rec.CityStateZip()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return Detail{
		Officer: rec.OfficerFullName(),
		Address: strings.Join(parts, ", "),
	}
}

// locateColumns finds the document-number and company-name columns by header.
func locateColumns(header []string) (docCol, nameCol int, err error) {
	docCol, nameCol = -1, -1
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch {
		case docCol < 0 && strings.Contains(key, "doc") && strings.Contains(key, "number"):
			docCol = i
		case nameCol < 0 && strings.Contains(key, "company"):
			nameCol = i
		}
	}
	if docCol < 0 {
		return 0, 0, fmt.Errorf("document number column: %w", domain.ErrColumnNotFound)
	}
	if nameCol < 0 {
		return 0, 0, fmt.Errorf("company name column: %w", domain.ErrColumnNotFound)
	}
	return docCol, nameCol, nil
}
