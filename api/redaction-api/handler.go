// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package redaction_api

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	internal_identity "github.com/rapidaai/redaction/api/redaction-api/internal/identity"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/commons"
)

const (
	NoteEmptyEvent       = "no records in event"
	NoteAllProcessed     = "all records processed"
	noteSomeFailedFormat = "%d of %d records failed"
)

// Processor runs the pipeline for one upload record.
type Processor interface {
	Process(ctx context.Context, record internal_type.UploadRecord) internal_type.Outcome
}

// Report aggregates the outcomes of one upload event.
type Report struct {
	Result  internal_type.Result    `json:"result"`
	Note    string                  `json:"note"`
	Records []internal_type.Outcome `json:"records"`
}

type Handler struct {
	logger    commons.Logger
	processor Processor
}

func NewHandler(logger commons.Logger, processor Processor) *Handler {
	return &Handler{logger: logger, processor: processor}
}

// Handle processes every record of the event in order and reports all outcomes.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (Report, error) {
	records := internal_identity.FromS3Event(event)
	if len(records) == 0 {
		h.logger.Warn("upload event carries no records")
		return Report{Result: internal_type.ResultFail, Note: NoteEmptyEvent, Records: []internal_type.Outcome{}}, nil
	}

	outcomes := make([]internal_type.Outcome, 0, len(records))
	failed := 0
	for _, record := range records {
		outcome := h.processor.Process(ctx, record)
		if !outcome.Succeeded() {
			failed++
		}
		outcomes = append(outcomes, outcome)
	}
	report := Report{Result: internal_type.ResultSuccess, Records: outcomes}
	if failed > 0 {
		report.Result = internal_type.ResultFail
	}
	switch {
	case len(outcomes) == 1:
		report.Note = outcomes[0].Note
	case failed > 0:
		report.Note = fmt.Sprintf(noteSomeFailedFormat, failed, len(outcomes))
	default:
		report.Note = NoteAllProcessed
	}
	h.logger.Infof("processed %d records: result=%s note=%q", len(outcomes), report.Result, report.Note)
	return report, nil
}
