// Package report renders batch resolution results as an xlsx workbook.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/pool"
)

const (
	matchesSheet = "Matches"
	summarySheet = "Summary"

	maxColumnWidth = 50.0
)

// Write renders results in input order to a two-sheet workbook: Matches with
// one row per query and Summary with aggregate statistics. details enriches
// matched rows with the officer and address of the winning filing; a nil map
// (CSV-backed pools) keeps the base columns.
func Write(path string, results []match.Result, stats match.Statistics, details map[string]pool.Detail, elapsed time.Duration) error {
	wb := excelize.NewFile()
	defer wb.Close()

	wb.SetSheetName(wb.GetSheetName(0), matchesSheet)
	if err := writeMatches(wb, results, details); err != nil {
		return err
	}
	if _, err := wb.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(wb, stats, elapsed); err != nil {
		return err
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	return nil
}

func writeMatches(wb *excelize.File, results []match.Result, details map[string]pool.Detail) error {
	header := []interface{}{"Company", "Matched Name", "Document Number", "Score", "Match Kind"}
	if details != nil {
		header = append(header, "Officer", "Address")
	}
	if err := wb.SetSheetRow(matchesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write matches header: %w", err)
	}

	widths := make([]float64, len(header))
	for i, h := range header {
		widths[i] = float64(len(h.(string)))
	}

	for i, r := range results {
		row := []interface{}{r.QueryName(), r.MatchedName(), r.DocumentNumber(), r.Score(), string(r.Kind())}
		if details != nil {
			d := details[r.DocumentNumber()]
			row = append(row, d.Officer, d.Address)
			track(widths, 5, d.Officer)
			track(widths, 6, d.Address)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(matchesSheet, cell, &row); err != nil {
			return fmt.Errorf("write matches row %d: %w", i+2, err)
		}
		track(widths, 0, r.QueryName())
		track(widths, 1, r.MatchedName())
		track(widths, 2, r.DocumentNumber())
	}

	return applyWidths(wb, matchesSheet, widths)
}

func writeSummary(wb *excelize.File, stats match.Statistics, elapsed time.Duration) error {
	rows := [][]interface{}{
		{"Total queries", stats.Total},
		{"Exact matches", stats.Exact},
		{"Fuzzy matches", stats.Fuzzy},
		{"Unmatched", stats.Unmatched},
		{"Match rate", fmt.Sprintf("%.1f%%", stats.MatchRate())},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := wb.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return applyWidths(wb, summarySheet, []float64{16, 12})
}

func track(widths []float64, col int, value string) {
	if w := float64(len(value)); w > widths[col] {
		widths[col] = w
	}
}

func applyWidths(wb *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		w += 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := wb.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set column width %s: %w", col, err)
		}
	}
	return nil
}
