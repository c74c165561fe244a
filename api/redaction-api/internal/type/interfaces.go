// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import "context"

// TagStore reads and writes tracking tags on a stored object. Implementations
// make a single attempt per call; retries belong to the caller of the pipeline.
type TagStore interface {
	GetTags(ctx context.Context, bucket, key string) (TagState, error)
	SetTags(ctx context.Context, bucket, key string, tags TagState) error
}

// ObjectStore also moves object bytes through local files.
type ObjectStore interface {
	TagStore
	Download(ctx context.Context, bucket, key, path string) error
	// Upload replaces the object, writing tags alongside so they survive the replace.
	Upload(ctx context.Context, bucket, key, path string, tags TagState) error
}

// RecordLookup returns nil, nil when the store has no record for the recording.
type RecordLookup interface {
	Lookup(ctx context.Context, recordingID string) (*RedactionRecord, error)
}

type TransformSignal int

const (
	TransformCompleted TransformSignal = iota
	TransformFailed
	TransformTagWriteFailed
)

func (s TransformSignal) String() string {
	switch s {
	case TransformCompleted:
		return "completed"
	case TransformFailed:
		return "transform_failed"
	case TransformTagWriteFailed:
		return "tag_write_failed"
	default:
		return "unknown"
	}
}

// Transformer applies a RedactionSpec to the stored recording. On success it
// writes the RedactionSpec tags with agent_redacted=1. The error explains any non
// completed signal.
type Transformer interface {
	Invoke(ctx context.Context, spec RedactionSpec) (TransformSignal, error)
}

// Lease guards one object against concurrent runs.
type Lease interface {
	// Acquire returns ErrLeaseHeld when another run owns the key.
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}
