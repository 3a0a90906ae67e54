// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client, which speaks to both AWS S3 and self-hosted
// MinIO instances. The sync command uses it to archive finished CSV reports.
//
// # Client Interface
//
// The Client interface exposes only the operations the report uploader needs,
// which keeps the mock in core/storage/mocks small.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, "sync-reports")
package storage
