package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"none", NONE},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(INFO)

	SetLevel(WARN)
	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
	assert.True(t, strings.HasPrefix(out, "[complaints] "))
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	require.NoError(t, Init(path, "debug"))
	defer func() { _ = Close(); SetLevel(INFO) }()

	assert.Equal(t, DEBUG, Level())
	assert.FileExists(t, path)
}

func TestInitClosesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "first.log"), "info"))
	first := logFile
	require.NotNil(t, first)

	require.NoError(t, Init(filepath.Join(dir, "second.log"), "info"))
	assert.NotSame(t, first, logFile)
	_, err := first.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)

	Info("to second")
	require.NoError(t, Close())
	assert.Nil(t, logFile)
	assert.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "second.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] to second")
}
