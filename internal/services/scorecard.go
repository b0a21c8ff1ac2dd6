package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/cjstrategies/reportflow/internal/models"
)

const (
	scorecardTitleLine1 = "CJ Strategies Hospitality Consulting"
	scorecardTitleLine2 = "Boutique Hotel Operations Scorecard"
	scorecardTagline    = "CJ Strategies Hospitality Consulting – Boutique Hotel Operations, Elevated."
)

// RenderScorecard lays out the one-page scorecard PDF: branding title block,
// the category/score table with a trailing overall row, and the tagline.
func RenderScorecard(set *models.ScoreSet) ([]byte, error) {
	const (
		categoryWidth = 250.0
		scoreWidth    = 200.0
		rowHeight     = 26.0
	)

	pdf := fpdf.New("P", "pt", "Letter", "")
	// Core fonts are cp1252; the tagline's dash needs translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, scorecardTitleLine1, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 24, scorecardTitleLine2, "", 1, "C", false, 0, "")
	pdf.Ln(20)

	pageWidth, _ := pdf.GetPageSize()
	tableLeft := (pageWidth - categoryWidth - scoreWidth) / 2

	pdf.SetDrawColor(128, 128, 128)
	for i, row := range scorecardRows(set) {
		pdf.SetX(tableLeft)
		if i == 0 {
			// Header: dark fill, white bold text.
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetFillColor(0x1C, 0x2A, 0x39)
			pdf.SetTextColor(255, 255, 255)
		} else {
			pdf.SetFont("Helvetica", "", 12)
			pdf.SetFillColor(0xF7, 0xF6, 0xF3)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(categoryWidth, rowHeight, tr(row[0]), "1", 0, "C", true, 0, "")
		pdf.CellFormat(scoreWidth, rowHeight, row[1], "1", 1, "C", true, 0, "")
	}

	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 16, tr(scorecardTagline), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render scorecard PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// scorecardRows builds the table content: header, one row per category, and
// the overall row (blank score when no overall was extracted).
func scorecardRows(set *models.ScoreSet) [][2]string {
	rows := make([][2]string, 0, len(set.Rows)+2)
	rows = append(rows, [2]string{"Category", "Average Score (1-5)"})
	for _, r := range set.Rows {
		rows = append(rows, [2]string{r.Category, formatScore(r.Value)})
	}
	overall := ""
	if set.Overall != nil {
		overall = formatScore(*set.Overall)
	}
	rows = append(rows, [2]string{"Overall Average", overall})
	return rows
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
