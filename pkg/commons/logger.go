// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging contract shared by every package of the service.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})

	// With returns a child logger carrying the given key/value pairs on every entry.
	With(keysAndValues ...interface{}) Logger
	Sync() error
}

type loggerOptions struct {
	name        string
	path        string
	level       string
	environment string
	maxSizeMB   int
	maxBackups  int
	maxAgeDays  int
}

type Option func(*loggerOptions)

func Name(name string) Option {
	return func(o *loggerOptions) { o.name = name }
}

// Path enables the rotating file sink under the given directory.
func Path(path string) Option {
	return func(o *loggerOptions) { o.path = path }
}

func Level(level string) Option {
	return func(o *loggerOptions) { o.level = level }
}

// Environment switches the encoder: "production" logs JSON, anything else logs console lines.
func Environment(env string) Option {
	return func(o *loggerOptions) { o.environment = env }
}

type applicationLogger struct {
	*zap.SugaredLogger
}

// NewApplicationLogger builds a zap backed logger writing to stdout and, when a path
// is configured, to a lumberjack rotated file named after the service.
func NewApplicationLogger(opts ...Option) (Logger, error) {
	o := &loggerOptions{
		name:        "redaction",
		level:       "info",
		environment: "development",
		maxSizeMB:   100,
		maxBackups:  3,
		maxAgeDays:  7,
	}
	for _, opt := range opts {
		opt(o)
	}

	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(o.level)))
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(o.environment, "production") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if o.path != "" {
		if err := os.MkdirAll(o.path, 0o755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(o.path, o.name+".log"),
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(o.name)
	return &applicationLogger{SugaredLogger: base.Sugar()}, nil
}

func (l *applicationLogger) With(keysAndValues ...interface{}) Logger {
	return &applicationLogger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}
