package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAnsiCodes(t *testing.T) {
	got := stripAnsiCodes("\x1b[31mError:\x1b[0m server \x1b[1;36m1.2.3.4:11434\x1b[0m failed")
	assert.Equal(t, "Error: server 1.2.3.4:11434 failed", got)
	assert.Equal(t, "no escapes", stripAnsiCodes("no escapes"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log, cleanup, err := New(&Config{Level: "info", Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	log.Debug("hidden")
	log.Info("attempting server", "server", "\x1b[36m1.2.3.4:11434\x1b[0m")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"attempting server"`)
	assert.Contains(t, out, `"server":"1.2.3.4:11434"`)
	assert.Contains(t, out, `"timestamp"`)
}

func TestNew_FileOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	dir := t.TempDir()

	var buf bytes.Buffer
	log, cleanup, err := New(&Config{
		Level:      "debug",
		Writer:     &buf,
		FileOutput: true,
		LogDir:     dir,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)

	styled := NewPlainStyledLogger(log)
	styled.WarnWithContext("Server attempt failed", "1.2.3.4:11434", LogContext{
		UserArgs:     []any{"model", "llama3"},
		DetailedArgs: []any{"error", "connection refused"},
	})
	cleanup()

	terminal := buf.String()
	assert.Contains(t, terminal, "Server attempt failed 1.2.3.4:11434")
	assert.NotContains(t, terminal, "connection refused")

	data, err := os.ReadFile(filepath.Join(dir, DefaultLogOutputName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "connection refused")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestNew_DetailedDroppedWithoutFile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log, cleanup, err := New(&Config{Level: "warn", Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	NewPlainStyledLogger(log).WarnWithContext("Server failed, trying next", "1.2.3.4:11434", LogContext{
		UserArgs:     []any{"model", "llama3"},
		DetailedArgs: []any{"error", "connection refused"},
	})

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "one terminal line per warning")
	assert.NotContains(t, buf.String(), "connection refused")
}

func TestPlainStyledLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	styled := NewPlainStyledLogger(base).With("model", "llama3")
	styled.InfoWithServer("Response from", "1.2.3.4:11434")
	styled.InfoWithCount("Loaded categories", 3)
	styled.InfoWithModel("Response received for", "llama3.2:3b")
	styled.WarnWithServer("Stream broke after partial output from", "5.6.7.8:11434", "chunks", 2)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Response from 1.2.3.4:11434"`)
	assert.Contains(t, out, `"msg":"Response received for llama3.2:3b"`)
	assert.Contains(t, out, `"level":"WARN","msg":"Stream broke after partial output from 5.6.7.8:11434"`)
	assert.Contains(t, out, `"chunks":2`)
	assert.Contains(t, out, `"model":"llama3"`)
	assert.Contains(t, out, `"count":3`)
}

func TestNewDiscard(t *testing.T) {
	l := NewDiscard()
	require.NotNil(t, l)
	l.Info("dropped")
	assert.NotNil(t, l.GetUnderlying())
}
