// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import "strings"

// Tracking tag names written on every processed recording.
const (
	TagAgentRedacted = "agent_redacted"
	TagAIRedacted    = "ai_redacted"

	TagValueDone    = "1"
	TagValuePending = "0"
)

type Tag struct {
	Key   string
	Value string
}

// TagState is the ordered tag set stored on a recording object.
type TagState []Tag

// NewTrackingTags returns the tag set written before any redaction work starts.
func NewTrackingTags() TagState {
	return TagState{
		{Key: TagAgentRedacted, Value: TagValuePending},
		{Key: TagAIRedacted, Value: TagValuePending},
	}
}

func (t TagState) Get(key string) (string, bool) {
	for _, tag := range t {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// With returns a copy with key set to value, appending the tag when it is missing.
func (t TagState) With(key, value string) TagState {
	out := make(TagState, 0, len(t)+1)
	found := false
	for _, tag := range t {
		if tag.Key == key {
			tag.Value = value
			found = true
		}
		out = append(out, tag)
	}
	if !found {
		out = append(out, Tag{Key: key, Value: value})
	}
	return out
}

// IsRedacted reports the idempotency marker: agent_redacted="1" makes the object terminal.
func (t TagState) IsRedacted() bool {
	v, ok := t.Get(TagAgentRedacted)
	return ok && v == TagValueDone
}

func (t TagState) Map() map[string]string {
	m := make(map[string]string, len(t))
	for _, tag := range t {
		m[tag.Key] = tag.Value
	}
	return m
}

func (t TagState) String() string {
	parts := make([]string, 0, len(t))
	for _, tag := range t {
		parts = append(parts, tag.Key+"="+tag.Value)
	}
	return strings.Join(parts, ",")
}
