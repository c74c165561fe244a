// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_objectstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/utils"
)

type s3API interface {
	GetObjectTagging(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error)
	PutObjectTagging(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client s3API
	logger commons.Logger
}

func NewS3Store(cfg aws.Config, logger commons.Logger) *S3Store {
	return &S3Store{client: s3.NewFromConfig(cfg), logger: logger}
}

func NewS3StoreWithClient(client s3API, logger commons.Logger) *S3Store {
	return &S3Store{client: client, logger: logger}
}

func (s *S3Store) GetTags(ctx context.Context, bucket, key string) (internal_type.TagState, error) {
	out, err := s.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: utils.Ptr(bucket),
		Key:    utils.Ptr(key),
	})
	if err != nil {
		return nil, err
	}
	tags := make(internal_type.TagState, 0, len(out.TagSet))
	for _, tag := range out.TagSet {
		tags = append(tags, internal_type.Tag{Key: utils.Deref(tag.Key), Value: utils.Deref(tag.Value)})
	}
	return tags, nil
}

// SetTags replaces the whole tag set of the object.
func (s *S3Store) SetTags(ctx context.Context, bucket, key string, tags internal_type.TagState) error {
	set := make([]s3types.Tag, 0, len(tags))
	for _, tag := range tags {
		set = append(set, s3types.Tag{Key: utils.Ptr(tag.Key), Value: utils.Ptr(tag.Value)})
	}
	_, err := s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  utils.Ptr(bucket),
		Key:     utils.Ptr(key),
		Tagging: &s3types.Tagging{TagSet: set},
	})
	return err
}

func (s *S3Store) Download(ctx context.Context, bucket, key, path string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: utils.Ptr(bucket),
		Key:    utils.Ptr(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, out.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debugf("downloaded s3://%s/%s to %s (%d bytes)", bucket, key, path, n)
	return nil
}

func (s *S3Store) Upload(ctx context.Context, bucket, key, path string, tags internal_type.TagState) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:        utils.Ptr(bucket),
		Key:           utils.Ptr(key),
		Body:          f,
		ContentLength: utils.Ptr(info.Size()),
	}
	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		input.ContentType = utils.Ptr(contentType)
	}
	if len(tags) > 0 {
		input.Tagging = utils.Ptr(encodeTagging(tags))
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return err
	}
	s.logger.Debugf("uploaded %s to s3://%s/%s (%d bytes)", path, bucket, key, info.Size())
	return nil
}

// encodeTagging renders tags as the URL query form PutObject expects.
func encodeTagging(tags internal_type.TagState) string {
	values := url.Values{}
	for _, tag := range tags {
		values.Set(tag.Key, tag.Value)
	}
	return values.Encode()
}
