package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anup-shanbhag/TrelloQuora/internal/config"
	"github.com/anup-shanbhag/TrelloQuora/internal/security"
)

const (
	archivePrefix     = "users/"
	signatureMetadata = "Signature"
)

// ArchiveStore keeps signed JSON snapshots of deleted users in an object bucket.
type ArchiveStore struct {
	client *minio.Client
	bucket string
	region string
	secret string
}

func NewArchiveStore(cfg config.StorageConfig, secret string) (*ArchiveStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint required")
	}
	if secret == "" {
		return nil, errors.New("archive secret required")
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ArchiveStore{
		client: client,
		bucket: cfg.BucketArchive,
		region: cfg.Region,
		secret: secret,
	}, nil
}

func (s *ArchiveStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// ArchiveKey places archives under a per-day prefix so retention can walk them
// in order.
func ArchiveKey(userUUID string, at time.Time) string {
	return path.Join(archivePrefix+at.UTC().Format("2006-01-02"), userUUID+".json")
}

// PutArchive uploads body under key and records its HMAC in object metadata.
func (s *ArchiveStore) PutArchive(ctx context.Context, key string, body []byte) error {
	signature := security.SignArchive(s.secret, key, body)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{signatureMetadata: signature},
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// RemoveOlderThan deletes archives last modified before cutoff and reports how
// many were removed.
func (s *ArchiveStore) RemoveOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	removed := 0
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return removed, fmt.Errorf("list objects: %w", object.Err)
		}
		if !object.LastModified.Before(cutoff) {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove object %s: %w", object.Key, err)
		}
		removed++
	}
	return removed, nil
}
