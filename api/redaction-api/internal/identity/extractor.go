// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_identity

import (
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/pkg/utils"
)

// Rules names the three separators used to derive a recording identity from an
// object key: <prefix>/<recording id>_<timestamp>.<extension>
type Rules struct {
	PathSeparator      string
	ExtensionSeparator string
	IDSeparator        string
}

func DefaultRules() Rules {
	return Rules{
		PathSeparator:      "/",
		ExtensionSeparator: ".",
		IDSeparator:        "_",
	}
}

type Extractor struct {
	rules Rules
}

func NewExtractor(rules Rules) *Extractor {
	defaults := DefaultRules()
	if rules.PathSeparator == "" {
		rules.PathSeparator = defaults.PathSeparator
	}
	if rules.ExtensionSeparator == "" {
		rules.ExtensionSeparator = defaults.ExtensionSeparator
	}
	if rules.IDSeparator == "" {
		rules.IDSeparator = defaults.IDSeparator
	}
	return &Extractor{rules: rules}
}

// FromS3Event lists the upload records of a bucket notification in delivery order.
// Keys are returned URL-decoded when the notification carries the decoded form.
func FromS3Event(event events.S3Event) []internal_type.UploadRecord {
	records := make([]internal_type.UploadRecord, 0, len(event.Records))
	for _, r := range event.Records {
		key := r.S3.Object.URLDecodedKey
		encoded := false
		if key == "" {
			key = r.S3.Object.Key
			encoded = true
		}
		records = append(records, internal_type.UploadRecord{
			Bucket:  r.S3.Bucket.Name,
			Key:     key,
			Encoded: encoded,
		})
	}
	return records
}

// Extract derives the recording identity. It is a pure function of the record.
func (e *Extractor) Extract(record internal_type.UploadRecord) (internal_type.RecordingIdentity, error) {
	if utils.IsEmpty(record.Bucket) {
		return internal_type.RecordingIdentity{}, &internal_type.MalformedEventError{Field: "bucket name", Reason: "is empty"}
	}
	key := record.Key
	if record.Encoded {
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			return internal_type.RecordingIdentity{}, &internal_type.MalformedEventError{Field: "object key", Reason: "is not url encoded"}
		}
		key = decoded
	}
	if utils.IsEmpty(key) {
		return internal_type.RecordingIdentity{}, &internal_type.MalformedEventError{Field: "object key", Reason: "is empty"}
	}

	fileName := key
	if i := strings.LastIndex(key, e.rules.PathSeparator); i >= 0 {
		fileName = key[i+len(e.rules.PathSeparator):]
	}
	if utils.IsEmpty(fileName) {
		return internal_type.RecordingIdentity{}, &internal_type.MalformedEventError{Field: "file name", Reason: "is empty"}
	}

	// no extension separator means the whole file name is the stem
	stem := fileName
	if i := strings.LastIndex(fileName, e.rules.ExtensionSeparator); i >= 0 {
		stem = fileName[:i]
	}
	recordingID := stem
	if i := strings.Index(stem, e.rules.IDSeparator); i >= 0 {
		recordingID = stem[:i]
	}
	if utils.IsEmpty(recordingID) {
		return internal_type.RecordingIdentity{}, &internal_type.MalformedEventError{Field: "recording id", Reason: "cannot be derived"}
	}

	return internal_type.RecordingIdentity{
		Bucket:      record.Bucket,
		Key:         key,
		FileName:    fileName,
		RecordingID: recordingID,
	}, nil
}
