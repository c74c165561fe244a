// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package connectors

import (
	"context"
	"fmt"

	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/redis/go-redis/v9"
)

type RedisConnector interface {
	Connect(ctx context.Context) error
	Name() string
	IsConnected(ctx context.Context) bool
	Disconnect(ctx context.Context) error
	GetConnection() *redis.Client
}

type redisConnector struct {
	cfg    *config.RedisConfig
	logger commons.Logger
	client *redis.Client
}

func NewRedisConnector(cfg *config.RedisConfig, logger commons.Logger) RedisConnector {
	return &redisConnector{cfg: cfg, logger: logger}
}

func (r *redisConnector) Name() string {
	return fmt.Sprintf("REDIS redis://%s:%d/%d", r.cfg.Host, r.cfg.Port, r.cfg.DB)
}

func (r *redisConnector) Connect(ctx context.Context) error {
	r.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port),
		Password: r.cfg.Password,
		DB:       r.cfg.DB,
	})
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.logger.Errorf("unable to connect %s: %v", r.Name(), err)
		return err
	}
	r.logger.Infof("connected %s", r.Name())
	return nil
}

func (r *redisConnector) IsConnected(ctx context.Context) bool {
	if r.client == nil {
		return false
	}
	return r.client.Ping(ctx).Err() == nil
}

func (r *redisConnector) Disconnect(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *redisConnector) GetConnection() *redis.Client {
	return r.client
}
