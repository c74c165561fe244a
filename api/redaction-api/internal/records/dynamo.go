// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_records

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
)

type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// dynamoItem mirrors the attributes written by the agent desktop integration.
type dynamoItem struct {
	ConnectionTimestamp float64                    `dynamodbav:"connection_timestamp"`
	RedactionRecord     []internal_type.PauseEvent `dynamodbav:"redaction_record"`
}

type DynamoLookup struct {
	client       dynamoAPI
	table        string
	keyAttribute string
	logger       commons.Logger
}

func NewDynamoLookup(cfg aws.Config, table, keyAttribute string, logger commons.Logger) *DynamoLookup {
	return NewDynamoLookupWithClient(dynamodb.NewFromConfig(cfg), table, keyAttribute, logger)
}

func NewDynamoLookupWithClient(client dynamoAPI, table, keyAttribute string, logger commons.Logger) *DynamoLookup {
	return &DynamoLookup{
		client:       client,
		table:        table,
		keyAttribute: keyAttribute,
		logger:       logger,
	}
}

func (d *DynamoLookup) Lookup(ctx context.Context, recordingID string) (*internal_type.RedactionRecord, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			d.keyAttribute: &types.AttributeValueMemberS{Value: recordingID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		d.logger.Debugf("no redaction record in %s for %s", d.table, recordingID)
		return nil, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("decode redaction record %s: %w", recordingID, err)
	}
	return &internal_type.RedactionRecord{
		RecordingID:         recordingID,
		ConnectionTimestamp: item.ConnectionTimestamp,
		Events:              item.RedactionRecord,
	}, nil
}
