package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yeremiapane/gobblego/utils"
)

var ErrAssetNotFound = errors.New("asset not found")

// AssetConfig describes the object store holding menu images.
type AssetConfig struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

type AssetInfo struct {
	Size        int64
	ContentType string
	ETag        string
}

// AssetStore opens one object by image id.
type AssetStore interface {
	Open(ctx context.Context, id string) (io.ReadCloser, AssetInfo, error)
}

// AssetService resolves /assets/images/:id to the object store. Without a
// configured store it only knows the public URL of the object.
type AssetService struct {
	config *AssetConfig
	store  AssetStore
}

func NewAssetService(config *AssetConfig, store AssetStore) *AssetService {
	return &AssetService{config: config, store: store}
}

// Key maps an image id onto its object key, e.g. "42" -> "assets/42".
func (s *AssetService) Key(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") || strings.Contains(id, "..") {
		return "", ErrInvalidInput
	}
	return path.Join(s.config.Prefix, id), nil
}

// PublicURL is the direct S3 URL of the image.
func (s *AssetService) PublicURL(id string) (string, error) {
	key, err := s.Key(id)
	if err != nil {
		return "", err
	}
	if s.config.Endpoint != "" {
		scheme := "http"
		if s.config.UseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.config.Endpoint, s.config.Bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key), nil
}

// HasStore reports whether images can be streamed instead of redirected.
func (s *AssetService) HasStore() bool {
	return s.store != nil
}

func (s *AssetService) Open(ctx context.Context, id string) (io.ReadCloser, AssetInfo, error) {
	if s.store == nil {
		return nil, AssetInfo{}, ErrAssetNotFound
	}
	if _, err := s.Key(id); err != nil {
		return nil, AssetInfo{}, err
	}
	return s.store.Open(ctx, strings.TrimSpace(id))
}

// MinioAssetStore reads images from an S3 compatible bucket.
type MinioAssetStore struct {
	client *minio.Client
	config *AssetConfig
}

func NewMinioAssetStore(config *AssetConfig) (*MinioAssetStore, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	utils.InfoLogger.Infof("Asset store connected: %s/%s", config.Endpoint, config.Bucket)
	return &MinioAssetStore{client: client, config: config}, nil
}

func (m *MinioAssetStore) Open(ctx context.Context, id string) (io.ReadCloser, AssetInfo, error) {
	key := path.Join(m.config.Prefix, id)
	obj, err := m.client.GetObject(ctx, m.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, AssetInfo{}, err
	}

	// GetObject is lazy; Stat surfaces a missing key
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, AssetInfo{}, ErrAssetNotFound
		}
		return nil, AssetInfo{}, err
	}

	return obj, AssetInfo{
		Size:        stat.Size,
		ContentType: stat.ContentType,
		ETag:        stat.ETag,
	}, nil
}
