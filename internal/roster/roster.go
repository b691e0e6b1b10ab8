// Package roster loads the query-side list of company names to resolve.
package roster

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/normalize"
)

// Load reads company names from path, picking the loader by file extension.
// .xlsx goes through the workbook loader, everything else is treated as
// one name per line.
func Load(path string, logger *zap.Logger) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FromWorkbook(path, logger)
	}
	return FromText(path)
}

// FromText reads one company name per line, skipping blanks.
func FromText(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return names, nil
}

// FromWorkbook reads company names from the first sheet of an xlsx file. The
// company column is located by header; when no header matches, the first
// column is used and the first row is kept as data.
func FromWorkbook(path string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col, skipHeader := companyColumn(rows[0])
	start := 0
	if skipHeader {
		start = 1
	}

	var names []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[col])
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	logger.Info("roster loaded",
		zap.String("path", path),
		zap.String("sheet", sheets[0]),
		zap.Int("names", len(names)),
	)
	return names, nil
}

// ToQueries normalizes roster names into match queries, preserving order.
func ToQueries(names []string) []match.Query {
	queries := make([]match.Query, len(names))
	for i, name := range names {
		queries[i] = match.NewQuery(name, normalize.Normalize(name))
	}
	return queries
}

func companyColumn(header []string) (col int, isHeader bool) {
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(key, "company") || strings.Contains(key, "name") {
			return i, true
		}
	}
	return 0, false
}
