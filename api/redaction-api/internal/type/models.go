// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

// UploadRecord is one (bucket, key) pair taken from an upload notification.
type UploadRecord struct {
	Bucket string
	Key    string

	// Encoded is set when Key is still URL-encoded as delivered by the notification.
	Encoded bool
}

// RecordingIdentity is derived from the object key alone.
type RecordingIdentity struct {
	Bucket      string
	Key         string
	FileName    string
	RecordingID string
}

// PauseEvent is one pause/resume pair, in the same absolute timescale as the
// record's connection timestamp.
type PauseEvent struct {
	Pause  float64 `json:"pause" dynamodbav:"pause"`
	Resume float64 `json:"resume" dynamodbav:"resume"`
}

// RedactionRecord is what the record store holds for a recording.
type RedactionRecord struct {
	RecordingID         string
	ConnectionTimestamp float64
	Events              []PauseEvent
}

// MuteInterval is a window in seconds relative to the connection timestamp.
// Start may be negative when clocks are skewed.
type MuteInterval struct {
	Start float64
	End   float64
}

// RedactionSpec is the unit handed to the Transformer. Treat as read only.
type RedactionSpec struct {
	RecordingID      string
	Bucket           string
	Key              string
	FilterExpression string
	Tags             TagState
	FileName         string
}
