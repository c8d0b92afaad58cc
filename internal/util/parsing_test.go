package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	got := ParseTime("2025-02-11T08:14:22Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 2, 11, 8, 14, 22, 0, time.UTC), got.UTC())

	got = ParseTime("2025-02-11T08:14:22.123456789+10:00")
	require.NotNil(t, got)
	assert.Equal(t, 123456789, got.Nanosecond())

	assert.Nil(t, ParseTime(""))
	assert.Nil(t, ParseTime("last tuesday"))
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	assert.Regexp(t, regexp.MustCompile(`^[a-z]+_[a-z]+_[0-9a-f]{4}$`), id)
}
