// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_records

import (
	"context"
	"fmt"

	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/connectors"
)

// NewRecordLookup builds the lookup named by the record_store provider. The
// returned close func releases any connection opened for it.
func NewRecordLookup(ctx context.Context, cfg *config.AppConfig, logger commons.Logger) (internal_type.RecordLookup, func(context.Context) error, error) {
	switch cfg.RecordStore.Provider {
	case "dynamodb":
		awsCfg, err := connectors.NewAWSConfig(ctx, logger, connectors.AWSCredential{
			Region: cfg.RecordStore.Region,
		})
		if err != nil {
			return nil, nil, err
		}
		lookup := NewDynamoLookup(awsCfg, cfg.RecordStore.Table, cfg.RecordStore.KeyAttribute, logger)
		return lookup, func(context.Context) error { return nil }, nil
	case "postgres":
		postgres := connectors.NewPostgresConnector(&cfg.Postgres, logger)
		if err := postgres.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return NewPostgresLookup(postgres, cfg.RecordStore.Table, logger), postgres.Disconnect, nil
	default:
		return nil, nil, fmt.Errorf("unsupported record store provider %q", cfg.RecordStore.Provider)
	}
}
