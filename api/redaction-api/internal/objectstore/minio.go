// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_objectstore

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
)

type minioAPI interface {
	GetObjectTagging(ctx context.Context, bucketName, objectName string, opts minio.GetObjectTaggingOptions) (*tags.Tags, error)
	PutObjectTagging(ctx context.Context, bucketName, objectName string, otags *tags.Tags, opts minio.PutObjectTaggingOptions) error
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore serves S3-compatible stores that are not AWS.
type MinioStore struct {
	client minioAPI
	logger commons.Logger
}

func NewMinIOClient(cfg *config.ObjectStoreConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
}

func NewMinioStore(cfg *config.ObjectStoreConfig, logger commons.Logger) (*MinioStore, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client, logger: logger}, nil
}

func NewMinioStoreWithClient(client minioAPI, logger commons.Logger) (*MinioStore, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &MinioStore{client: client, logger: logger}, nil
}

// GetTags returns tags sorted by key; the MinIO API does not keep tag order.
func (s *MinioStore) GetTags(ctx context.Context, bucket, key string) (internal_type.TagState, error) {
	t, err := s.client.GetObjectTagging(ctx, bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		return nil, err
	}
	return fromTagMap(t.ToMap()), nil
}

func (s *MinioStore) SetTags(ctx context.Context, bucket, key string, state internal_type.TagState) error {
	t, err := tags.NewTags(state.Map(), true)
	if err != nil {
		return err
	}
	return s.client.PutObjectTagging(ctx, bucket, key, t, minio.PutObjectTaggingOptions{})
}

func (s *MinioStore) Download(ctx context.Context, bucket, key, path string) error {
	if err := s.client.FGetObject(ctx, bucket, key, path, minio.GetObjectOptions{}); err != nil {
		return err
	}
	s.logger.Debugf("downloaded %s/%s to %s", bucket, key, path)
	return nil
}

func (s *MinioStore) Upload(ctx context.Context, bucket, key, path string, state internal_type.TagState) error {
	opts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		UserTags:    state.Map(),
	}
	info, err := s.client.FPutObject(ctx, bucket, key, path, opts)
	if err != nil {
		return err
	}
	s.logger.Debugf("uploaded %s to %s/%s (%d bytes)", path, bucket, key, info.Size)
	return nil
}

func fromTagMap(m map[string]string) internal_type.TagState {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	state := make(internal_type.TagState, 0, len(keys))
	for _, k := range keys {
		state = append(state, internal_type.Tag{Key: k, Value: m[k]})
	}
	return state
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
