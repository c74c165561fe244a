// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	redaction_api "github.com/rapidaai/redaction/api/redaction-api"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
)

func main() {
	v, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(v)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Level(cfg.LogLevel),
		commons.Path(cfg.LogPath),
		commons.Environment(cfg.Env),
	)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	app, err := redaction_api.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("unable to build redaction pipeline: %v", err)
	}
	defer app.Close(ctx)

	logger.Infof("starting %s %s lambda handler", cfg.Name, cfg.Version)
	lambda.Start(app.Handler.Handle)
}
