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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

type PostgresConnector interface {
	Connect(ctx context.Context) error
	Name() string
	IsConnected(ctx context.Context) bool
	Disconnect(ctx context.Context) error
	DB(ctx context.Context) *gorm.DB
}

type postgresConnector struct {
	cfg    *config.PostgresConfig
	logger commons.Logger
	db     *gorm.DB
}

func NewPostgresConnector(cfg *config.PostgresConfig, logger commons.Logger) PostgresConnector {
	return &postgresConnector{cfg: cfg, logger: logger}
}

// NewPostgresConnectorWithDB wraps an already opened gorm handle.
func NewPostgresConnectorWithDB(db *gorm.DB, logger commons.Logger) PostgresConnector {
	return &postgresConnector{logger: logger, db: db}
}

func (p *postgresConnector) dsn() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		p.cfg.Host, p.cfg.Auth.User, p.cfg.Auth.Password, p.cfg.DBName, p.cfg.Port, p.cfg.SslMode)
}

func (p *postgresConnector) Name() string {
	if p.cfg == nil {
		return "PSQL"
	}
	return fmt.Sprintf("PSQL psql://%s:%d/%s", p.cfg.Host, p.cfg.Port, p.cfg.DBName)
}

func (p *postgresConnector) Connect(ctx context.Context) error {
	db, err := gorm.Open(postgres.Open(p.dsn()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		p.logger.Errorf("unable to connect %s: %v", p.Name(), err)
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(p.cfg.MaxOpenConnection)
	sqlDB.SetMaxIdleConns(p.cfg.MaxIdealConnection)
	p.db = db
	p.logger.Infof("connected %s", p.Name())
	return nil
}

func (p *postgresConnector) IsConnected(ctx context.Context) bool {
	if p.db == nil {
		return false
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func (p *postgresConnector) Disconnect(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *postgresConnector) DB(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx)
}
