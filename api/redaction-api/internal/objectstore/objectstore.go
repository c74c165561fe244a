// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_objectstore

import (
	"context"
	"fmt"

	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/connectors"
)

// NewObjectStore builds the store named by the object_store provider.
func NewObjectStore(ctx context.Context, cfg *config.ObjectStoreConfig, logger commons.Logger) (internal_type.ObjectStore, error) {
	switch cfg.Provider {
	case "s3":
		awsCfg, err := connectors.NewAWSConfig(ctx, logger, connectors.AWSCredential{
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Store(awsCfg, logger), nil
	case "minio":
		return NewMinioStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported object store provider %q", cfg.Provider)
	}
}
