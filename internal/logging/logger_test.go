package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" DEBUG ": LevelDebug,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"chatty":  LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConfigureFiltersByLevel(t *testing.T) {
	defer DisableLogging()

	var buf bytes.Buffer
	Configure(LevelWarn, &buf)

	Info("dropped")
	Warn("kept", "id", "abc")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "abc", record["id"])
}

func TestWithAddsAttributes(t *testing.T) {
	defer DisableLogging()

	var buf bytes.Buffer
	Configure(LevelDebug, &buf)

	With("component", "workspace").Debug("hello")
	assert.Contains(t, buf.String(), `"component":"workspace"`)
}

func TestEnableFileLogging(t *testing.T) {
	defer DisableLogging()
	dir := filepath.Join(t.TempDir(), "nested")

	require.NoError(t, EnableFileLogging(dir, LevelInfo))
	Debug("too quiet")
	Info("written")
	Close()
	Info("after close")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
	assert.NotContains(t, string(data), "too quiet")
	assert.NotContains(t, string(data), "after close")
}

func TestDisableLoggingDiscards(t *testing.T) {
	var buf bytes.Buffer
	Configure(LevelDebug, &buf)
	DisableLogging()

	Error("gone")
	assert.Empty(t, buf.String())
}
