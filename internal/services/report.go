package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cjstrategies/reportflow/internal/gcp"
	"github.com/cjstrategies/reportflow/internal/models"
)

// Form part names the pipeline recognizes.
const (
	partExcel     = "excel"
	partWordTmpl  = "word_template"
	partCoverPDF  = "cover_pdf"
	partNarrative = "narrative_pdf"
)

// ArtifactPublisher publishes one artifact and returns its signed link.
type ArtifactPublisher interface {
	Publish(ctx context.Context, name string, data []byte) (*models.PublishedArtifact, error)
}

// ReportAssemblerConfig holds configuration for the assembly service.
type ReportAssemblerConfig struct {
	ProjectID      string
	ReportsBucket  string
	CollectionName string
}

// ReportAssembler runs the report-assembly pipeline for one request:
// decode parts, extract scores, render the scorecard, fill the narrative
// template, merge the PDF, publish both artifacts. Strictly sequential and
// terminal on the first failure; a publish that succeeded before a later
// failure stays published.
type ReportAssembler struct {
	publisher ArtifactPublisher
	jobs      JobRecorder
	config    ReportAssemblerConfig
}

// NewReportAssembler wires the service from the environment.
func NewReportAssembler(ctx context.Context) (*ReportAssembler, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := ReportAssemblerConfig{
		ProjectID:      projectID,
		ReportsBucket:  gcp.GetEnv("REPORTS_BUCKET", "reports"),
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "report_jobs"),
	}

	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, err
	}
	publisher, err := NewPublisher(storageClient, PublisherConfig{
		ProjectID: config.ProjectID,
		Bucket:    config.ReportsBucket,
		URLExpiry: 24 * time.Hour,
	})
	if err != nil {
		return nil, err
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}

	f := &ReportAssembler{
		publisher: publisher,
		jobs:      NewFirestoreJobRecorder(firestoreClient, config.CollectionName),
		config:    config,
	}
	slog.Info("Report assembler initialized.", "bucket", config.ReportsBucket, "collection", config.CollectionName)
	return f, nil
}

// Process runs the pipeline over one request body. Errors satisfying
// IsClientError mean the request never entered the pipeline; everything
// else is a processing failure recorded against the job.
func (f *ReportAssembler) Process(ctx context.Context, contentType string, body []byte) (*models.ReportResponse, error) {
	parts, err := ParseMultipart(contentType, body)
	if err != nil {
		return nil, err
	}

	excel, haveExcel := parts[partExcel]
	wordTemplate, haveTemplate := parts[partWordTmpl]
	if !haveExcel || !haveTemplate {
		return nil, fmt.Errorf("%w: 'excel' or 'word_template'", ErrMissingPart)
	}

	jobID, err := f.jobs.Create(ctx)
	if err != nil {
		return nil, err
	}
	logCtx := slog.With("jobId", jobID)
	logCtx.Info("Assembling report.", "excelFilename", excel.Filename, "templateFilename", wordTemplate.Filename)

	set, err := ReadScores(excel.Content)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, jobID, "failed to read scores from workbook", err)
	}
	logCtx.Info("Scores extracted.", "categories", len(set.Rows), "skippedRows", len(set.Skipped), "hasOverall", set.Overall != nil)

	scorecard, err := RenderScorecard(set)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, jobID, "failed to render scorecard", err)
	}

	filledDocx, err := FillNarrativeTemplate(wordTemplate.Content, set.Map())
	if err != nil {
		return nil, f.handleError(ctx, logCtx, jobID, "failed to fill narrative template", err)
	}

	merged, err := MergeReport(parts[partCoverPDF].Content, scorecard, parts[partNarrative].Content)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, jobID, "failed to merge report documents", err)
	}

	// Both artifacts share one timestamp so they pair up in the bucket.
	ts := time.Now().UTC().Format("20060102-150405")
	pdfName := fmt.Sprintf("CJ_Report_%s.pdf", ts)
	docxName := fmt.Sprintf("CJ_Narrative_%s.docx", ts)

	pdfArtifact, err := f.publisher.Publish(ctx, pdfName, merged)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, jobID, "failed to publish report PDF", err)
	}
	docxArtifact, err := f.publisher.Publish(ctx, docxName, filledDocx)
	if err != nil {
		// The PDF above stays published and reachable; there is no
		// cross-artifact transaction.
		return nil, f.handleError(ctx, logCtx, jobID, "failed to publish narrative docx", err)
	}

	if err := f.jobs.MarkPublished(ctx, jobID, pdfArtifact, docxArtifact); err != nil {
		logCtx.Error("Failed to mark job record as published.", "error", err)
	}
	logCtx.Info("Report published.", "pdfObject", pdfName, "docxObject", docxName, "urlExpiry", pdfArtifact.Expiry)

	return &models.ReportResponse{
		PDFURL:           pdfArtifact.URL,
		NarrativeDocxURL: docxArtifact.URL,
	}, nil
}

// handleError records the failure on the job record and returns the
// triggering error untouched: the stage context goes to the log and the
// job record, the caller sees the component's own message. A failure to
// update the record never masks the original error.
func (f *ReportAssembler) handleError(ctx context.Context, logCtx *slog.Logger, jobID, message string, originalErr error) error {
	logCtx.Error(message, "error", originalErr)
	if err := f.jobs.MarkFailed(ctx, jobID, fmt.Sprintf("%s: %v", message, originalErr)); err != nil {
		logCtx.Error("CRITICAL: Failed to update job record to FAILED after a processing error.", "updateError", err)
	}
	return originalErr
}
