package services

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cjstrategies/reportflow/internal/models"
)

const (
	summarySheetName  = "Summary Dashboard"
	categoryHeader    = "category"
	averageScoreLabel = "average score"
)

// ReadScores extracts per-category scores and the overall score from the
// Summary Dashboard worksheet. Rows whose score cell is not a finite number
// are dropped, logged, and reported in ScoreSet.Skipped rather than failing
// the whole extraction; stray notes in the sheet are expected.
func ReadScores(xlsx []byte) (*models.ScoreSet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(summarySheetName)
	if err != nil || idx < 0 {
		return nil, ErrMissingWorksheet
	}
	rows, err := f.GetRows(summarySheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", summarySheetName, err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingColumn
	}

	headers := rows[0]
	catCol, ok := findColumn(headers, categoryHeader)
	if !ok {
		return nil, ErrMissingColumn
	}
	scoreCol, fellBack := resolveScoreColumn(headers)
	if fellBack {
		slog.Warn("No 'Average Score' header found; falling back to second column.", "sheet", summarySheetName)
	}

	set := &models.ScoreSet{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header row
		category := strings.TrimSpace(cellAt(row, catCol))
		if category == "" {
			continue
		}
		raw := strings.TrimSpace(cellAt(row, scoreCol))
		value, numeric := parseScore(raw)

		if strings.Contains(strings.ToLower(category), "overall") {
			if numeric {
				set.Overall = &value
			}
			continue
		}
		if !numeric {
			slog.Warn("Skipping non-numeric score cell.", "sheet", summarySheetName, "row", rowNum, "category", category, "value", raw)
			set.Skipped = append(set.Skipped, models.SkippedRow{
				RowNumber: rowNum,
				Category:  category,
				RawValue:  raw,
				Reason:    "score cell is not a finite number",
			})
			continue
		}
		set.Rows = append(set.Rows, models.ScoreRow{Category: category, Value: value})
	}
	return set, nil
}

// findColumn locates a header by case-insensitive, whitespace-trimmed match.
func findColumn(headers []string, name string) (int, bool) {
	for i, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == name {
			return i, true
		}
	}
	return 0, false
}

// resolveScoreColumn prefers the labeled "Average Score" column and falls
// back to the second column positionally. Legacy dashboard workbooks predate
// the header label and rely on the fallback.
func resolveScoreColumn(headers []string) (col int, fellBack bool) {
	if i, ok := findColumn(headers, averageScoreLabel); ok {
		return i, false
	}
	return 1, true
}

// cellAt guards against the ragged rows excelize returns: trailing empty
// cells are trimmed per row, so short rows are normal.
func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func parseScore(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
