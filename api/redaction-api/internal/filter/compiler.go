// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_filter

import (
	"fmt"
	"strconv"
	"strings"

	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
)

// DefaultTimeScale converts millisecond store timestamps into seconds.
const DefaultTimeScale = 1000.0

const clauseSeparator = ","

// Compiler turns pause/resume events into an ffmpeg audio filter that silences
// every mute window.
type Compiler struct {
	timeScale float64
}

func NewCompiler(timeScale float64) *Compiler {
	if timeScale <= 0 {
		timeScale = DefaultTimeScale
	}
	return &Compiler{timeScale: timeScale}
}

// Intervals converts the record events into windows relative to the connection
// timestamp, keeping record order. Overlapping windows are kept as they are.
func (c *Compiler) Intervals(record internal_type.RedactionRecord) []internal_type.MuteInterval {
	intervals := make([]internal_type.MuteInterval, 0, len(record.Events))
	for _, ev := range record.Events {
		intervals = append(intervals, internal_type.MuteInterval{
			Start: (ev.Pause - record.ConnectionTimestamp) / c.timeScale,
			End:   (ev.Resume - record.ConnectionTimestamp) / c.timeScale,
		})
	}
	return intervals
}

// Compile returns the filter expression, or "" when the record has no events.
func (c *Compiler) Compile(record internal_type.RedactionRecord) string {
	intervals := c.Intervals(record)
	clauses := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		clauses = append(clauses, Clause(iv))
	}
	return strings.Join(clauses, clauseSeparator)
}

// Clause renders one mute window, e.g. volume=enable='between(t,4.0,8.0)':volume=0
func Clause(iv internal_type.MuteInterval) string {
	return fmt.Sprintf("volume=enable='between(t,%s,%s)':volume=0", formatSeconds(iv.Start), formatSeconds(iv.End))
}

// formatSeconds prints the shortest decimal that round-trips, always with a
// fractional part: 4 -> "4.0", 0.25 -> "0.25".
func formatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
