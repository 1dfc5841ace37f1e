package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("drawn", "pool", "general")
	assert.Empty(t, buf.String())

	log.Warn("failed to record session event", "action", "start")
	out := buf.String()
	assert.Contains(t, out, "failed to record session event")
	assert.Contains(t, out, "action=start")
	assert.NotContains(t, out, "\x1b[", "buffers get no color codes")
}

func TestOpenWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lexiq.log")
	log, closeFn, err := Open(path, os.Stderr, slog.LevelDebug)
	require.NoError(t, err)

	log.Debug("session started", "questions", 3)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "questions=3")
}

func TestOpenFallback(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := Open("", &buf, slog.LevelInfo)
	require.NoError(t, err)
	log.Info("hello")
	assert.NoError(t, closeFn())
	assert.Contains(t, buf.String(), "hello")
}
