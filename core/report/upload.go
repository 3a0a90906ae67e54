package report

import (
	"context"
	"fmt"
	"os"
	"path"

	"group-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Uploader archives finished reports in object storage.
type Uploader struct {
	client storage.Client
	bucket string
	prefix string
}

// NewUploader creates an uploader for the configured bucket.
func NewUploader(client storage.Client, cfg UploadConfig) *Uploader {
	return &Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
}

// Upload copies the file at localPath to <prefix>/<runID>.csv and returns the
// object name.
func (u *Uploader) Upload(ctx context.Context, localPath, runID string) (string, error) {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", u.bucket, err)
	}
	if !exists {
		return "", fmt.Errorf("bucket %s does not exist", u.bucket)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat report: %w", err)
	}

	objectName := path.Join(u.prefix, runID+".csv")
	_, err = u.client.PutObject(ctx, u.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return objectName, nil
}
