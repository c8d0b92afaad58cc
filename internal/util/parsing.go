package util

import (
	"time"
)

// ParseTime parses RFC3339 or RFC3339Nano timestamps such as the metadata's
// perf_last_tested. Anything else yields nil.
func ParseTime(timeStr string) *time.Time {
	if t, err := time.Parse(time.RFC3339, timeStr); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339Nano, timeStr); err == nil {
		return &t
	}
	return nil
}
