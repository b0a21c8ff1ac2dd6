package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/cjstrategies/reportflow/internal/models"
)

// JobRecorder is the audit trail for assembly requests. The orchestrator
// depends on the interface so tests can observe recording without Firestore.
type JobRecorder interface {
	Create(ctx context.Context) (string, error)
	MarkFailed(ctx context.Context, jobID, details string) error
	MarkPublished(ctx context.Context, jobID string, pdf, docx *models.PublishedArtifact) error
}

// FirestoreJobRecorder keeps one document per assembly request in the
// configured collection.
type FirestoreJobRecorder struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreJobRecorder(client *firestore.Client, collection string) *FirestoreJobRecorder {
	return &FirestoreJobRecorder{client: client, collection: collection}
}

func (r *FirestoreJobRecorder) Create(ctx context.Context) (string, error) {
	job := models.ReportJob{
		Status:    "ASSEMBLING",
		CreatedAt: time.Now(),
	}
	docRef, _, err := r.client.Collection(r.collection).Add(ctx, job)
	if err != nil {
		return "", fmt.Errorf("failed to create job record: %w", err)
	}
	return docRef.ID, nil
}

func (r *FirestoreJobRecorder) MarkFailed(ctx context.Context, jobID, details string) error {
	return r.update(ctx, jobID, []firestore.Update{
		{Path: "status", Value: "FAILED"},
		{Path: "errorDetails", Value: details},
	})
}

func (r *FirestoreJobRecorder) MarkPublished(ctx context.Context, jobID string, pdf, docx *models.PublishedArtifact) error {
	return r.update(ctx, jobID, []firestore.Update{
		{Path: "status", Value: "PUBLISHED"},
		{Path: "pdfObject", Value: pdf.Name},
		{Path: "docxObject", Value: docx.Name},
		{Path: "urlExpiry", Value: pdf.Expiry},
	})
}

func (r *FirestoreJobRecorder) update(ctx context.Context, jobID string, updates []firestore.Update) error {
	if _, err := r.client.Collection(r.collection).Doc(jobID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update job record %s: %w", jobID, err)
	}
	return nil
}
