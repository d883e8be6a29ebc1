package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config) *service {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	s, err := newService(context.Background(), cfg, nil)
	require.NoError(t, err)
	return s
}

func TestPresignedURLsUsePublicEndpoint(t *testing.T) {
	s := newTestService(t, Config{
		Endpoint:        "http://minio:9000",
		PublicEndpoint:  "http://localhost:9000",
		Bucket:          "dashboard",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	ctx := context.Background()

	upload, err := s.GeneratePresignedUploadURL(ctx, "users/u1/report.pdf", "application/pdf", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(upload)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/dashboard/users/u1/report.pdf", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	download, err := s.GeneratePresignedDownloadURL(ctx, "users/u1/report.pdf", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(download, "http://localhost:9000/dashboard/"))
}

func TestPresignValidation(t *testing.T) {
	s := newTestService(t, Config{Bucket: "dashboard", AccessKeyID: "k", SecretAccessKey: "s"})
	ctx := context.Background()

	_, err := s.GeneratePresignedUploadURL(ctx, "", "text/plain", time.Minute)
	assert.Error(t, err)
	_, err = s.GeneratePresignedUploadURL(ctx, "k", "", time.Minute)
	assert.Error(t, err)
	_, err = s.GeneratePresignedDownloadURL(ctx, "k", 0)
	assert.Error(t, err)
	assert.Error(t, s.DeleteFile(ctx, ""))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := newService(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
