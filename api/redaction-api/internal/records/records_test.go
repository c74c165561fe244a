package internal_records

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/connectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("test-records"), commons.Level("error"))
	require.NoError(t, err)
	return logger
}

type fakeDynamo struct {
	item  map[string]types.AttributeValue
	err   error
	input *dynamodb.GetItemInput
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func pair(pause, resume string) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"pause":  &types.AttributeValueMemberN{Value: pause},
		"resume": &types.AttributeValueMemberN{Value: resume},
	}}
}

func TestDynamoLookup_Found(t *testing.T) {
	client := &fakeDynamo{item: map[string]types.AttributeValue{
		"contactId":            &types.AttributeValueMemberS{Value: "abc123"},
		"connection_timestamp": &types.AttributeValueMemberN{Value: "1000"},
		"redaction_record": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			pair("5000", "9000"),
			pair("12000", "15500"),
		}},
	}}
	lookup := NewDynamoLookupWithClient(client, "redaction_db", "contactId", newTestLogger(t))

	record, err := lookup.Lookup(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "abc123", record.RecordingID)
	assert.Equal(t, 1000.0, record.ConnectionTimestamp)
	assert.Equal(t, []internal_type.PauseEvent{
		{Pause: 5000, Resume: 9000},
		{Pause: 12000, Resume: 15500},
	}, record.Events)

	assert.Equal(t, "redaction_db", *client.input.TableName)
	key, ok := client.input.Key["contactId"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "abc123", key.Value)
}

func TestDynamoLookup_Absent(t *testing.T) {
	lookup := NewDynamoLookupWithClient(&fakeDynamo{}, "redaction_db", "contactId", newTestLogger(t))
	record, err := lookup.Lookup(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestDynamoLookup_NoPairs(t *testing.T) {
	client := &fakeDynamo{item: map[string]types.AttributeValue{
		"contactId":            &types.AttributeValueMemberS{Value: "abc123"},
		"connection_timestamp": &types.AttributeValueMemberN{Value: "1000"},
	}}
	lookup := NewDynamoLookupWithClient(client, "redaction_db", "contactId", newTestLogger(t))
	record, err := lookup.Lookup(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Empty(t, record.Events)
}

func TestDynamoLookup_Errors(t *testing.T) {
	lookup := NewDynamoLookupWithClient(&fakeDynamo{err: errors.New("ResourceNotFoundException")}, "redaction_db", "contactId", newTestLogger(t))
	_, err := lookup.Lookup(context.Background(), "abc123")
	assert.EqualError(t, err, "ResourceNotFoundException")

	bad := &fakeDynamo{item: map[string]types.AttributeValue{
		"connection_timestamp": &types.AttributeValueMemberS{Value: "not-a-number"},
	}}
	lookup = NewDynamoLookupWithClient(bad, "redaction_db", "contactId", newTestLogger(t))
	_, err = lookup.Lookup(context.Background(), "abc123")
	assert.Error(t, err)
}

func newMockLookup(t *testing.T) (*PostgresLookup, sqlmock.Sqlmock) {
	return newMockLookupForTable(t, "")
}

func newMockLookupForTable(t *testing.T, table string) (*PostgresLookup, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	logger := newTestLogger(t)
	return NewPostgresLookup(connectors.NewPostgresConnectorWithDB(db, logger), table, logger), mock
}

const selectRecord = `SELECT \* FROM "redaction_records" WHERE contact_id = \$1`

func TestPostgresLookup_Found(t *testing.T) {
	lookup, mock := newMockLookup(t)
	rows := sqlmock.NewRows([]string{"contact_id", "connection_timestamp", "redaction_record"}).
		AddRow("abc123", 1000.0, []byte(`[{"pause":5000,"resume":9000}]`))
	mock.ExpectQuery(selectRecord).WillReturnRows(rows)

	record, err := lookup.Lookup(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "abc123", record.RecordingID)
	assert.Equal(t, 1000.0, record.ConnectionTimestamp)
	assert.Equal(t, []internal_type.PauseEvent{{Pause: 5000, Resume: 9000}}, record.Events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLookup_Absent(t *testing.T) {
	lookup, mock := newMockLookup(t)
	mock.ExpectQuery(selectRecord).
		WillReturnRows(sqlmock.NewRows([]string{"contact_id", "connection_timestamp", "redaction_record"}))

	record, err := lookup.Lookup(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLookup_Error(t *testing.T) {
	lookup, mock := newMockLookup(t)
	mock.ExpectQuery(selectRecord).WillReturnError(errors.New("connection refused"))

	_, err := lookup.Lookup(context.Background(), "abc123")
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRecordLookup_UnknownProvider(t *testing.T) {
	cfg := &config.AppConfig{RecordStore: config.RecordStoreConfig{Provider: "mongo"}}
	_, _, err := NewRecordLookup(context.Background(), cfg, newTestLogger(t))
	assert.Error(t, err)
}

func TestNewRecordLookup_Dynamo(t *testing.T) {
	cfg := &config.AppConfig{RecordStore: config.RecordStoreConfig{
		Provider: "dynamodb", Table: "redaction_db", KeyAttribute: "contactId", Region: "us-east-1",
	}}
	lookup, closeFn, err := NewRecordLookup(context.Background(), cfg, newTestLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &DynamoLookup{}, lookup)
	assert.NoError(t, closeFn(context.Background()))
}

func TestPostgresLookup_ConfiguredTable(t *testing.T) {
	lookup, mock := newMockLookupForTable(t, "redaction_db")
	rows := sqlmock.NewRows([]string{"contact_id", "connection_timestamp", "redaction_record"}).
		AddRow("abc123", 1000.0, []byte(`[]`))
	mock.ExpectQuery(`SELECT \* FROM "redaction_db" WHERE contact_id = \$1`).WillReturnRows(rows)

	record, err := lookup.Lookup(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Empty(t, record.Events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
