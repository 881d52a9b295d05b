package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://already", endpointURL("http://already", true))
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(fmt.Errorf("head: %w", &types.NotFound{})))
	assert.True(t, isS3NotFound(&types.NoSuchKey{}))
	assert.False(t, isS3NotFound(fmt.Errorf("timeout")))
}

func TestS3PresignedURLIsLocal(t *testing.T) {
	s := NewS3Storage(config.StorageConfig{
		Endpoint:      "localhost:9000",
		AccessKey:     "key",
		SecretKey:     "secret",
		Bucket:        "blog-images",
		Region:        "us-east-1",
		PresignExpiry: 15 * time.Minute,
	})

	raw, err := s.PresignedURL(context.Background(), "file-1", true)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/blog-images/file-1"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("response-content-disposition"), "attachment")
}
