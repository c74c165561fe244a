// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package connectors

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/smithy-go/logging"
	"github.com/rapidaai/redaction/pkg/commons"
)

// AWSCredential is optional; with empty keys the default credential chain
// (environment, shared config, execution role) is used.
type AWSCredential struct {
	Region    string
	AccessKey string
	SecretKey string
}

type awsLogger struct {
	logger commons.Logger
}

func (l awsLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	if classification == logging.Warn {
		l.logger.Warnf(format, v...)
		return
	}
	l.logger.Debugf(format, v...)
}

func NewAWSConfig(ctx context.Context, logger commons.Logger, credential AWSCredential) (aws.Config, error) {
	if credential.Region == "" {
		logger.Errorf("Unable to create aws config without region")
		return aws.Config{}, errors.New("unable to resolve the region for aws")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(credential.Region),
		awsconfig.WithLogger(awsLogger{logger: logger}),
	}
	if credential.AccessKey != "" && credential.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(credential.AccessKey, credential.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Errorf("Unable to load aws config: %v", err)
		return aws.Config{}, errors.New("unable to resolve the credential for aws")
	}
	return cfg, nil
}
