package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"group-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploader_Upload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("username,roles,error\n"), 0o644))

	t.Run("Success", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "reports").Return(true, nil)
		client.On("PutObject", ctx, "reports", "group-sync/run-1.csv", mock.Anything, int64(21), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "text/csv"
		})).Return(minio.UploadInfo{}, nil)

		u := NewUploader(client, UploadConfig{Bucket: "reports", Prefix: "group-sync"})
		name, err := u.Upload(ctx, path, "run-1")
		require.NoError(t, err)
		assert.Equal(t, "group-sync/run-1.csv", name)
		client.AssertExpectations(t)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "reports").Return(false, nil)

		u := NewUploader(client, UploadConfig{Bucket: "reports"})
		_, err := u.Upload(ctx, path, "run-1")
		assert.ErrorContains(t, err, "does not exist")
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PutFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "reports").Return(true, nil)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("denied"))

		u := NewUploader(client, UploadConfig{Bucket: "reports"})
		_, err := u.Upload(ctx, path, "run-1")
		assert.ErrorContains(t, err, "denied")
	})
}
