package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"

	"github.com/cjstrategies/reportflow/internal/gcp"
	"github.com/cjstrategies/reportflow/internal/models"
)

// PublisherConfig holds configuration for the artifact publisher.
type PublisherConfig struct {
	ProjectID string
	Bucket    string
	URLExpiry time.Duration
}

// Publisher writes report artifacts to the reports bucket and issues
// time-limited read links. Publishes are independent of each other; a
// failure never unpublishes an artifact written earlier in the request.
type Publisher struct {
	storageClient *storage.Client
	config        PublisherConfig
}

// writeTimeout bounds a single blob upload.
const writeTimeout = 50 * time.Second

// NewPublisher creates a Publisher. The bucket and project must be set; the
// client is created by the caller so it can be shared across services.
func NewPublisher(client *storage.Client, config PublisherConfig) (*Publisher, error) {
	if client == nil || config.ProjectID == "" || config.Bucket == "" {
		return nil, ErrStorageUnavailable
	}
	if config.URLExpiry <= 0 {
		config.URLExpiry = 24 * time.Hour
	}
	return &Publisher{storageClient: client, config: config}, nil
}

// Publish ensures the reports bucket exists, writes (or overwrites) the blob
// under name, and returns a read-only signed URL valid for the configured
// expiry window.
func (p *Publisher) Publish(ctx context.Context, name string, data []byte) (*models.PublishedArtifact, error) {
	if err := gcp.EnsureBucket(ctx, p.storageClient, p.config.ProjectID, p.config.Bucket); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w := p.storageClient.Bucket(p.config.Bucket).Object(name).NewWriter(writeCtx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: failed to write %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to finalize %s: %v", ErrStorageUnavailable, name, err)
	}

	expiry := time.Now().Add(p.config.URLExpiry)
	url, err := p.storageClient.Bucket(p.config.Bucket).SignedURL(name, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expiry,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign URL for %s: %v", ErrStorageUnavailable, name, err)
	}

	return &models.PublishedArtifact{Name: name, URL: url, Expiry: expiry}, nil
}
