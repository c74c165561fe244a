// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package redaction_api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"golang.org/x/sync/errgroup"
)

// ReadinessCheck reports whether one backing service is reachable.
type ReadinessCheck func(ctx context.Context) bool

type WebhookApi struct {
	cfg     *config.AppConfig
	logger  commons.Logger
	handler *Handler
	checks  map[string]ReadinessCheck
}

func NewWebhookApi(cfg *config.AppConfig, logger commons.Logger, handler *Handler, checks map[string]ReadinessCheck) *WebhookApi {
	return &WebhookApi{cfg: cfg, logger: logger, handler: handler, checks: checks}
}

// Events accepts an S3 event notification body, as sent by MinIO bucket
// notifications or an SNS/EventBridge relay, and runs it through the pipeline.
func (w *WebhookApi) Events(c *gin.Context) {
	var event events.S3Event
	if err := c.ShouldBindJSON(&event); err != nil {
		w.logger.Errorf("unable to decode upload event: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"result": internal_type.ResultFail, "note": "invalid upload event"})
		return
	}
	// A notifier that hangs up must not kill ffmpeg mid-run; the transform
	// timeout still bounds the work.
	report, err := w.handler.Handle(context.WithoutCancel(c.Request.Context()), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": internal_type.ResultFail, "note": err.Error()})
		return
	}
	status := http.StatusOK
	if report.Result != internal_type.ResultSuccess {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}

func (w *WebhookApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy": true, "service": w.cfg.Name, "version": w.cfg.Version})
}

func (w *WebhookApi) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	services := make(map[string]bool, len(w.checks))
	g, gctx := errgroup.WithContext(ctx)
	for name, check := range w.checks {
		g.Go(func() error {
			ok := check(gctx)
			mu.Lock()
			services[name] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	ready := true
	for _, ok := range services {
		ready = ready && ok
	}
	if !ready {
		w.logger.Warnf("readiness failed: %v", services)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "services": services})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "services": services})
}
