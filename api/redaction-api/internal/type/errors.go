// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"errors"
	"fmt"
)

// ErrLeaseHeld is returned by a Lease when another run owns the object.
var ErrLeaseHeld = errors.New("processing lease held by another run")

// MalformedEventError means the upload record cannot yield a recording identity.
type MalformedEventError struct {
	Field  string
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed upload event: %s %s", e.Field, e.Reason)
}

type TagReadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *TagReadError) Error() string {
	return fmt.Sprintf("read tags %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *TagReadError) Unwrap() error { return e.Err }

type TagWriteError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *TagWriteError) Error() string {
	return fmt.Sprintf("write tags %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *TagWriteError) Unwrap() error { return e.Err }

type RecordLookupError struct {
	RecordingID string
	Err         error
}

func (e *RecordLookupError) Error() string {
	return fmt.Sprintf("lookup redaction record %s: %v", e.RecordingID, e.Err)
}

func (e *RecordLookupError) Unwrap() error { return e.Err }

// TransformError carries the stage of the transform that failed.
type TransformError struct {
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
