package models

import (
	"strings"
	"time"
)

// UploadedPart is one named section of a multipart request body.
type UploadedPart struct {
	FieldName string
	Filename  string
	Content   []byte
}

// ScoreRow is a single category score extracted from the summary worksheet.
type ScoreRow struct {
	Category string
	Value    float64
}

// SkippedRow records a worksheet row that was dropped during extraction,
// so callers can audit data loss instead of guessing at it.
type SkippedRow struct {
	RowNumber int
	Category  string
	RawValue  string
	Reason    string
}

// ScoreSet is the structured result of reading the summary worksheet.
// Overall, when set, is never duplicated inside Rows.
type ScoreSet struct {
	Rows    []ScoreRow
	Overall *float64
	Skipped []SkippedRow
}

// Map returns the rows keyed by normalized (trimmed, lowercased) category.
// Duplicate categories resolve last-seen-wins.
func (s *ScoreSet) Map() map[string]float64 {
	m := make(map[string]float64, len(s.Rows))
	for _, r := range s.Rows {
		m[NormalizeCategory(r.Category)] = r.Value
	}
	return m
}

// NormalizeCategory canonicalizes a category label for case-insensitive
// matching between the worksheet and the narrative template.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PublishedArtifact describes one blob written to the reports bucket.
type PublishedArtifact struct {
	Name   string
	URL    string
	Expiry time.Time
}

// ReportJob is the Firestore audit record for one assembly request.
type ReportJob struct {
	Status       string    `firestore:"status,omitempty"`
	ErrorDetails string    `firestore:"errorDetails,omitempty"`
	PDFObject    string    `firestore:"pdfObject,omitempty"`
	DocxObject   string    `firestore:"docxObject,omitempty"`
	URLExpiry    time.Time `firestore:"urlExpiry,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty"`
}

// ReportResponse is the JSON payload returned on success.
type ReportResponse struct {
	PDFURL           string `json:"pdf_url"`
	NarrativeDocxURL string `json:"narrative_docx_url"`
}
