// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_lease

import (
	"context"
	"time"

	"github.com/google/uuid"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "redaction:lease:"

// releaseLuaScript deletes the lease only while it still carries our token, so
// a run whose lease expired cannot drop a lease taken over by another run.
var releaseLuaScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLease is a per-object processing lease held in Redis with a TTL.
type RedisLease struct {
	client   redis.Cmdable
	logger   commons.Logger
	ttl      time.Duration
	newToken func() string
}

func NewRedisLease(client redis.Cmdable, ttl time.Duration, logger commons.Logger) *RedisLease {
	return &RedisLease{
		client:   client,
		logger:   logger,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
}

func (l *RedisLease) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	leaseKey := keyPrefix + key
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, leaseKey, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_type.ErrLeaseHeld
	}
	l.logger.Debugf("acquired lease %s for %s", leaseKey, l.ttl)

	return func(ctx context.Context) error {
		released, err := releaseLuaScript.Run(ctx, l.client, []string{leaseKey}, token).Int()
		if err != nil {
			return err
		}
		if released == 0 {
			l.logger.Warnf("lease %s expired before release", leaseKey)
		}
		return nil
	}, nil
}

// NoopLease always grants the lease. Used when Redis is disabled.
type NoopLease struct{}

func (NoopLease) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
