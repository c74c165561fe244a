// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
)

// CommandRunner runs an external binary and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FfmpegTransformer downloads the recording, mutes it with ffmpeg, replaces
// the stored object and marks it agent_redacted.
type FfmpegTransformer struct {
	store     internal_type.ObjectStore
	runner    CommandRunner
	logger    commons.Logger
	binary    string
	workDir   string
	timeout   time.Duration
	extraArgs []string
	newName   func() string
}

type Option func(*FfmpegTransformer)

func WithRunner(runner CommandRunner) Option {
	return func(t *FfmpegTransformer) { t.runner = runner }
}

func WithNameGenerator(fn func() string) Option {
	return func(t *FfmpegTransformer) { t.newName = fn }
}

func NewFfmpegTransformer(cfg *config.TransformConfig, store internal_type.ObjectStore, logger commons.Logger, opts ...Option) *FfmpegTransformer {
	t := &FfmpegTransformer{
		store:     store,
		runner:    execRunner{},
		logger:    logger,
		binary:    cfg.FfmpegPath,
		workDir:   cfg.WorkDir,
		timeout:   cfg.Timeout,
		extraArgs: cfg.ExtraArgs,
		newName:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *FfmpegTransformer) Invoke(ctx context.Context, spec internal_type.RedactionSpec) (internal_type.TransformSignal, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	name := t.newName()
	ext := filepath.Ext(spec.FileName)
	input := filepath.Join(t.workDir, name+"-in"+ext)
	output := filepath.Join(t.workDir, name+"-out"+ext)
	defer t.cleanup(input, output)

	if err := t.store.Download(ctx, spec.Bucket, spec.Key, input); err != nil {
		return internal_type.TransformFailed, &internal_type.TransformError{Stage: "download", Err: err}
	}

	args := t.Args(input, output, spec.FilterExpression)
	t.logger.Debugf("running %s %s", t.binary, strings.Join(args, " "))
	if out, err := t.runner.Run(ctx, t.binary, args...); err != nil {
		return internal_type.TransformFailed, &internal_type.TransformError{
			Stage: "ffmpeg",
			Err:   fmt.Errorf("%w: %s", err, tail(out, 512)),
		}
	}

	// The replace fires a new upload notification for the same key; the
	// object must already carry agent_redacted=1 when that run reads its tags.
	done := spec.Tags.With(internal_type.TagAgentRedacted, internal_type.TagValueDone)
	if err := t.store.Upload(ctx, spec.Bucket, spec.Key, output, done); err != nil {
		return internal_type.TransformFailed, &internal_type.TransformError{Stage: "upload", Err: err}
	}

	if err := t.store.SetTags(ctx, spec.Bucket, spec.Key, done); err != nil {
		return internal_type.TransformTagWriteFailed, &internal_type.TagWriteError{Bucket: spec.Bucket, Key: spec.Key, Err: err}
	}
	t.logger.Infof("redacted %s/%s for recording %s", spec.Bucket, spec.Key, spec.RecordingID)
	return internal_type.TransformCompleted, nil
}

// Args is the ffmpeg argument list for one run. An empty filter copies the audio unchanged.
func (t *FfmpegTransformer) Args(input, output, filter string) []string {
	args := []string{"-hide_banner", "-y", "-i", input}
	if filter != "" {
		args = append(args, "-af", filter)
	}
	args = append(args, t.extraArgs...)
	return append(args, output)
}

func (t *FfmpegTransformer) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			t.logger.Warnf("unable to remove %s: %v", path, err)
		}
	}
}

func tail(out []byte, n int) string {
	s := strings.TrimSpace(string(out))
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
