package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_ToJSON(t *testing.T) {
	metadata := &Metadata{
		URL:       "https://boards.greenhouse.io/acme/jobs/1",
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Platform:  PlatformGreenhouse,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, *metadata, decoded)
	assert.Contains(t, string(jsonBytes), `"platform": "greenhouse"`)
}

func TestComputeHash(t *testing.T) {
	hash := ComputeHash("test content")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, ComputeHash("test content"))
	assert.NotEqual(t, hash, ComputeHash("different content"))
}

func TestNewMetadata(t *testing.T) {
	url := "https://jobs.lever.co/acme/123"
	metadata := NewMetadata("test content", url)

	assert.Equal(t, url, metadata.URL)
	assert.Equal(t, PlatformLever, metadata.Platform)
	assert.Equal(t, ComputeHash("test content"), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestNewMetadata_EmptyURL(t *testing.T) {
	metadata := NewMetadata("test content", "")

	assert.Empty(t, metadata.URL)
	assert.Empty(t, metadata.Platform)
	assert.NotEmpty(t, metadata.Timestamp)
}
