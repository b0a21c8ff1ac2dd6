// Package gcp centralizes environment access and Google Cloud client
// construction so the service constructors stay uniform.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// NewStorageClient creates the Cloud Storage client shared by the publisher.
func NewStorageClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// NewFirestoreClient creates the Firestore client backing the job audit
// trail for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates the bucket if it does not already exist. A conflict
// response (bucket already exists, or already owned by this project) is not
// an error; any other provisioning failure is surfaced to the caller.
func EnsureBucket(ctx context.Context, client *storage.Client, projectID, bucket string) error {
	err := client.Bucket(bucket).Create(ctx, projectID, nil)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("failed to provision bucket %s: %w", bucket, err)
}
