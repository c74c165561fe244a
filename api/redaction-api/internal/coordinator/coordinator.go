// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_coordinator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	internal_filter "github.com/rapidaai/redaction/api/redaction-api/internal/filter"
	internal_identity "github.com/rapidaai/redaction/api/redaction-api/internal/identity"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
)

// Coordinator runs the redaction pipeline for one upload record:
//
//	extract identity -> acquire lease -> read tags -> (already done | write tracking tags)
//	-> lookup record -> (no record: mark done | compile filter -> transform)
//
// Every collaborator failure is turned into a terminal Outcome; Process never
// returns an error and never retries.
type Coordinator struct {
	logger      commons.Logger
	extractor   *internal_identity.Extractor
	tags        internal_type.TagStore
	records     internal_type.RecordLookup
	compiler    *internal_filter.Compiler
	transformer internal_type.Transformer
	lease       internal_type.Lease
	newRunID    func() string
}

type Option func(*Coordinator)

// WithLease guards each object with a processing lease. Without it two runs for
// the same key can both pass the tag check.
func WithLease(lease internal_type.Lease) Option {
	return func(c *Coordinator) { c.lease = lease }
}

func WithRunID(fn func() string) Option {
	return func(c *Coordinator) { c.newRunID = fn }
}

func NewCoordinator(
	logger commons.Logger,
	extractor *internal_identity.Extractor,
	tags internal_type.TagStore,
	records internal_type.RecordLookup,
	compiler *internal_filter.Compiler,
	transformer internal_type.Transformer,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		logger:      logger,
		extractor:   extractor,
		tags:        tags,
		records:     records,
		compiler:    compiler,
		transformer: transformer,
		newRunID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Process(ctx context.Context, record internal_type.UploadRecord) internal_type.Outcome {
	runID := c.newRunID()
	outcome := internal_type.NewOutcome(runID)
	logger := c.logger.With("run_id", runID)

	logger.Info("<-- START -->")
	defer logger.Info("<-- END -->")

	logger.Info("STEP 1: Determine if redaction needs to happen")
	identity, err := c.extractor.Extract(record)
	if err != nil {
		logger.Errorf("STEP 1 FAILED: failed to extract the required data: %v", err)
		return outcome.Advance(internal_type.Step1, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteEventExtractionFailed)
	}
	outcome.RecordingID = identity.RecordingID
	outcome.Bucket = identity.Bucket
	outcome.Key = identity.Key
	logger = logger.With("recording_id", identity.RecordingID, "bucket", identity.Bucket, "key", identity.Key)

	if c.lease != nil {
		release, err := c.lease.Acquire(ctx, identity.Bucket+"/"+identity.Key)
		if errors.Is(err, internal_type.ErrLeaseHeld) {
			logger.Warnf("STEP 1 SKIPPED: another run is processing this file")
			return outcome.Advance(internal_type.Step1, internal_type.StepIncomplete).
				Finish(internal_type.ResultSuccess, internal_type.NoteProcessingInProgress)
		}
		if err != nil {
			logger.Errorf("STEP 1 FAILED: unable to acquire processing lease: %v", err)
			return outcome.Advance(internal_type.Step1, internal_type.StepIncomplete).
				Finish(internal_type.ResultFail, internal_type.NoteLeaseUnavailable)
		}
		defer func() {
			if err := release(ctx); err != nil {
				logger.Warnf("unable to release processing lease: %v", err)
			}
		}()
	}

	current, err := c.tags.GetTags(ctx, identity.Bucket, identity.Key)
	if err != nil {
		err = &internal_type.TagReadError{Bucket: identity.Bucket, Key: identity.Key, Err: err}
		logger.Errorf("STEP 1 FAILED: failed to extract the tracking tags: %v", err)
		return outcome.Advance(internal_type.Step1, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteTagExtractionFailed)
	}
	logger.Debugf("tags extracted: %s", current)

	if current.IsRedacted() {
		logger.Info("STEP 1 COMPLETE: file already processed")
		return outcome.Advance(internal_type.Step1, internal_type.StepComplete).
			Finish(internal_type.ResultSuccess, internal_type.NoteAlreadyProcessed)
	}
	logger.Info("STEP 1 COMPLETE: file not processed yet")
	outcome.Advance(internal_type.Step1, internal_type.StepComplete)

	logger.Info("STEP 2: Prepare for redaction")
	tracking := internal_type.NewTrackingTags()
	if err := c.tags.SetTags(ctx, identity.Bucket, identity.Key, tracking); err != nil {
		err = &internal_type.TagWriteError{Bucket: identity.Bucket, Key: identity.Key, Err: err}
		logger.Errorf("STEP 2 FAILED: failed to set new tracking tags: %v", err)
		return outcome.Advance(internal_type.Step2, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteTrackingTagsFailed)
	}
	logger.Debugf("tracking tags set: %s", tracking)

	redaction, err := c.records.Lookup(ctx, identity.RecordingID)
	if err != nil {
		err = &internal_type.RecordLookupError{RecordingID: identity.RecordingID, Err: err}
		logger.Errorf("STEP 2 FAILED: %v", err)
		return outcome.Advance(internal_type.Step2, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteRecordLookupFailed)
	}

	filter := ""
	if redaction != nil {
		filter = c.compiler.Compile(*redaction)
	}
	if filter == "" {
		// absent record and a record without pause events both mean nothing to mute
		done := tracking.With(internal_type.TagAgentRedacted, internal_type.TagValueDone)
		if err := c.tags.SetTags(ctx, identity.Bucket, identity.Key, done); err != nil {
			err = &internal_type.TagWriteError{Bucket: identity.Bucket, Key: identity.Key, Err: err}
			logger.Errorf("STEP 2 FAILED: failed to update tracking tags: %v", err)
			return outcome.Advance(internal_type.Step2, internal_type.StepIncomplete).
				Finish(internal_type.ResultFail, internal_type.NoteTrackingUpdateFailed)
		}
		logger.Info("STEP 2 COMPLETE: no redaction required")
		return outcome.Advance(internal_type.Step2, internal_type.StepComplete).
			Finish(internal_type.ResultSuccess, internal_type.NoteNoRedactionRequired)
	}
	logger.Debugf("complete filter: %s", filter)

	spec := internal_type.RedactionSpec{
		RecordingID:      identity.RecordingID,
		Bucket:           identity.Bucket,
		Key:              identity.Key,
		FilterExpression: filter,
		Tags:             tracking,
		FileName:         identity.FileName,
	}
	logger.Info("STEP 2 COMPLETE: redaction required, continue processing")
	outcome.Advance(internal_type.Step2, internal_type.StepComplete)

	logger.Info("STEP 3: Perform redaction")
	signal, err := c.transformer.Invoke(ctx, spec)
	switch signal {
	case internal_type.TransformCompleted:
		logger.Info("STEP 3 COMPLETE: redaction completed")
		return outcome.Advance(internal_type.Step3, internal_type.StepComplete).
			Finish(internal_type.ResultSuccess, internal_type.NoteRedactionCompleted)
	case internal_type.TransformTagWriteFailed:
		logger.Errorf("STEP 3 FAILED: file redacted but tracking tag not written: %v", err)
		return outcome.Advance(internal_type.Step3, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteTagUpdateFailed)
	default:
		logger.Errorf("STEP 3 FAILED: redaction did not complete: %v", err)
		return outcome.Advance(internal_type.Step3, internal_type.StepIncomplete).
			Finish(internal_type.ResultFail, internal_type.NoteRedactionFailed)
	}
}
