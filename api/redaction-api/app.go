// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package redaction_api

import (
	"context"
	"errors"

	internal_coordinator "github.com/rapidaai/redaction/api/redaction-api/internal/coordinator"
	internal_filter "github.com/rapidaai/redaction/api/redaction-api/internal/filter"
	internal_identity "github.com/rapidaai/redaction/api/redaction-api/internal/identity"
	internal_lease "github.com/rapidaai/redaction/api/redaction-api/internal/lease"
	internal_objectstore "github.com/rapidaai/redaction/api/redaction-api/internal/objectstore"
	internal_records "github.com/rapidaai/redaction/api/redaction-api/internal/records"
	internal_transform "github.com/rapidaai/redaction/api/redaction-api/internal/transform"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/rapidaai/redaction/pkg/connectors"
)

// Application owns the pipeline and the connections it opened.
type Application struct {
	Handler *Handler
	Checks  map[string]ReadinessCheck
	closers []func(context.Context) error
}

// NewApplication wires the configured object store, record store, lease and
// transformer into a Handler.
func NewApplication(ctx context.Context, cfg *config.AppConfig, logger commons.Logger) (*Application, error) {
	app := &Application{Checks: map[string]ReadinessCheck{}}

	store, err := internal_objectstore.NewObjectStore(ctx, &cfg.ObjectStore, logger)
	if err != nil {
		return nil, err
	}

	records, closeRecords, err := internal_records.NewRecordLookup(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeRecords)

	var lease internal_type.Lease = internal_lease.NoopLease{}
	if cfg.Redis.Enabled {
		redis := connectors.NewRedisConnector(&cfg.Redis, logger)
		if err := redis.Connect(ctx); err != nil {
			app.Close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, redis.Disconnect)
		app.Checks[redis.Name()] = redis.IsConnected
		lease = internal_lease.NewRedisLease(redis.GetConnection(), cfg.Redis.LeaseTTL, logger)
	} else {
		logger.Warn("redis disabled, running without processing lease")
	}

	extractor := internal_identity.NewExtractor(internal_identity.Rules{
		PathSeparator:      cfg.Identity.PathSeparator,
		ExtensionSeparator: cfg.Identity.ExtensionSeparator,
		IDSeparator:        cfg.Identity.IDSeparator,
	})
	coordinator := internal_coordinator.NewCoordinator(
		logger,
		extractor,
		store,
		records,
		internal_filter.NewCompiler(cfg.RecordStore.TimeScale),
		internal_transform.NewFfmpegTransformer(&cfg.Transform, store, logger),
		internal_coordinator.WithLease(lease),
	)
	app.Handler = NewHandler(logger, coordinator)
	return app, nil
}

func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
