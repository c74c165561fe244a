// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

type Result string

const (
	ResultSuccess Result = "success"
	ResultFail    Result = "fail"
)

type StepStatus string

const (
	StepNotAttempted StepStatus = "not_attempted"
	StepIncomplete   StepStatus = "incomplete"
	StepComplete     StepStatus = "complete"
)

type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
)

// Outcome notes.
const (
	NoteEventExtractionFailed = "event extraction failed"
	NoteLeaseUnavailable      = "processing lease unavailable"
	NoteProcessingInProgress  = "file processing in progress"
	NoteTagExtractionFailed   = "tag extraction failed"
	NoteAlreadyProcessed      = "file already processed"
	NoteTrackingTagsFailed    = "failed to set tracking tags"
	NoteRecordLookupFailed    = "record lookup failed"
	NoteNoRedactionRequired   = "no redaction required"
	NoteTrackingUpdateFailed  = "failed to update tracking tags"
	NoteRedactionCompleted    = "redaction completed successfully"
	NoteRedactionFailed       = "file redaction failed"
	NoteTagUpdateFailed       = "tracking tag update failed"
)

// Outcome is the result of one pipeline run for one recording.
type Outcome struct {
	Result      Result     `json:"result"`
	Step1       StepStatus `json:"step_1_result"`
	Step2       StepStatus `json:"step_2_result"`
	Step3       StepStatus `json:"step_3_result"`
	Note        string     `json:"note"`
	RunID       string     `json:"run_id,omitempty"`
	RecordingID string     `json:"recording_id,omitempty"`
	Bucket      string     `json:"bucket,omitempty"`
	Key         string     `json:"key,omitempty"`
}

func NewOutcome(runID string) *Outcome {
	return &Outcome{
		Step1: StepNotAttempted,
		Step2: StepNotAttempted,
		Step3: StepNotAttempted,
		RunID: runID,
	}
}

func (o *Outcome) field(step Step) *StepStatus {
	switch step {
	case Step1:
		return &o.Step1
	case Step2:
		return &o.Step2
	default:
		return &o.Step3
	}
}

// Advance records the status of a step. A step only moves forward from
// not_attempted; a step that already reached a status keeps it.
func (o *Outcome) Advance(step Step, status StepStatus) *Outcome {
	f := o.field(step)
	if *f == StepNotAttempted {
		*f = status
	}
	return o
}

// Finish sets the terminal result and note.
func (o *Outcome) Finish(result Result, note string) Outcome {
	o.Result = result
	o.Note = note
	return *o
}

func (o Outcome) Succeeded() bool {
	return o.Result == ResultSuccess
}
