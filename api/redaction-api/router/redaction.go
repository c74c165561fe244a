// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package redaction_routers

import (
	"github.com/gin-gonic/gin"
	redaction_api "github.com/rapidaai/redaction/api/redaction-api"
	"github.com/rapidaai/redaction/pkg/commons"
)

func RedactionRoutes(engine *gin.Engine, logger commons.Logger, api *redaction_api.WebhookApi) {
	logger.Info("Internal RedactionRoutes added to engine.")
	apiv1 := engine.Group("/v1/redaction")
	{
		apiv1.POST("/events", api.Events)
	}
}

func HealthCheckRoutes(engine *gin.Engine, logger commons.Logger, api *redaction_api.WebhookApi) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	hc := engine.Group("")
	{
		hc.GET("/readiness/", api.Readiness)
		hc.GET("/healthz/", api.Healthz)
	}
}
