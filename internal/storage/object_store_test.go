package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anup-shanbhag/TrelloQuora/internal/config"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "users/2024-03-01/abc.json", ArchiveKey("abc", at))
}

func TestNewArchiveStoreValidation(t *testing.T) {
	_, err := NewArchiveStore(config.StorageConfig{}, "secret")
	assert.Error(t, err)

	_, err = NewArchiveStore(config.StorageConfig{Endpoint: "localhost:9000"}, "")
	assert.Error(t, err)
}

func TestNewArchiveStoreParsesURLEndpoint(t *testing.T) {
	store, err := NewArchiveStore(config.StorageConfig{
		Endpoint:      "https://objects.example.com",
		AccessKey:     "key",
		SecretKey:     "secret",
		BucketArchive: "quora-archive",
		Region:        "us-east-1",
	}, "archive-secret")
	require.NoError(t, err)

	assert.Equal(t, "objects.example.com", store.client.EndpointURL().Host)
	assert.Equal(t, "https", store.client.EndpointURL().Scheme)
	assert.Equal(t, "quora-archive", store.bucket)
}
