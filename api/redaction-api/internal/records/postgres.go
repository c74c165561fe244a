// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_records

import (
	"context"
	"errors"
	"fmt"

	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/connectors"
	"gorm.io/gorm"
)

// RedactionRow is the relational form of a redaction record. Pause/resume
// pairs are kept as a jsonb array.
type RedactionRow struct {
	ContactID           string                     `json:"contactId" gorm:"column:contact_id;primaryKey"`
	ConnectionTimestamp float64                    `json:"connectionTimestamp" gorm:"column:connection_timestamp"`
	RedactionRecord     []internal_type.PauseEvent `json:"redactionRecord" gorm:"column:redaction_record;type:jsonb;serializer:json"`
}

func (RedactionRow) TableName() string {
	return "redaction_records"
}

type PostgresLookup struct {
	postgres connectors.PostgresConnector
	table    string
	logger   commons.Logger
}

// NewPostgresLookup reads from table, or from redaction_records when table is empty.
func NewPostgresLookup(postgres connectors.PostgresConnector, table string, logger commons.Logger) *PostgresLookup {
	if table == "" {
		table = RedactionRow{}.TableName()
	}
	return &PostgresLookup{postgres: postgres, table: table, logger: logger}
}

func (p *PostgresLookup) Lookup(ctx context.Context, recordingID string) (*internal_type.RedactionRecord, error) {
	db := p.postgres.DB(ctx)
	var row RedactionRow
	if err := db.Table(p.table).Where("contact_id = ?", recordingID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.logger.Debugf("no redaction record in %s for %s", p.table, recordingID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read redaction record %s: %w", recordingID, err)
	}
	return &internal_type.RedactionRecord{
		RecordingID:         row.ContactID,
		ConnectionTimestamp: row.ConnectionTimestamp,
		Events:              row.RedactionRecord,
	}, nil
}
