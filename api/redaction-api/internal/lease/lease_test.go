package internal_lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLease(t *testing.T) (*RedisLease, redismock.ClientMock) {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("test-lease"), commons.Level("error"))
	require.NoError(t, err)
	client, mock := redismock.NewClientMock()
	lease := NewRedisLease(client, 15*time.Minute, logger)
	lease.newToken = func() string { return "token-1" }
	return lease, mock
}

func TestRedisLease_AcquireAndRelease(t *testing.T) {
	lease, mock := newTestLease(t)
	mock.ExpectSetNX("redaction:lease:recordings/calls/abc_1.wav", "token-1", 15*time.Minute).SetVal(true)
	mock.ExpectEvalSha(releaseLuaScript.Hash(), []string{"redaction:lease:recordings/calls/abc_1.wav"}, "token-1").SetVal(int64(1))

	release, err := lease.Acquire(context.Background(), "recordings/calls/abc_1.wav")
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLease_ExpiredBeforeRelease(t *testing.T) {
	lease, mock := newTestLease(t)
	mock.ExpectSetNX("redaction:lease:b/k", "token-1", 15*time.Minute).SetVal(true)
	mock.ExpectEvalSha(releaseLuaScript.Hash(), []string{"redaction:lease:b/k"}, "token-1").SetVal(int64(0))

	release, err := lease.Acquire(context.Background(), "b/k")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLease_Held(t *testing.T) {
	lease, mock := newTestLease(t)
	mock.ExpectSetNX("redaction:lease:b/k", "token-1", 15*time.Minute).SetVal(false)

	release, err := lease.Acquire(context.Background(), "b/k")
	assert.ErrorIs(t, err, internal_type.ErrLeaseHeld)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLease_BackendError(t *testing.T) {
	lease, mock := newTestLease(t)
	mock.ExpectSetNX("redaction:lease:b/k", "token-1", 15*time.Minute).SetErr(errors.New("connection refused"))

	_, err := lease.Acquire(context.Background(), "b/k")
	assert.EqualError(t, err, "connection refused")
	assert.NotErrorIs(t, err, internal_type.ErrLeaseHeld)
}

func TestNoopLease(t *testing.T) {
	release, err := NoopLease{}.Acquire(context.Background(), "b/k")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
