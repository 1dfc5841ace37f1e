package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiq/internal/quiz"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"LEXIQ_DB", "LEXIQ_LOG_LEVEL", "LEXIQ_QUIZ_ACCEPT_THRESHOLD", "LEXIQ_QUIZ_MAX_BUFFER_SIZE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.DB)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, quiz.DefaultConfig(), cfg.Quiz.Scheduler())
	assert.Equal(t, 10, cfg.Quiz.DefaultCount)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lexiq"), 0o755))
	yaml := `
db: /tmp/words.db
log:
  level: debug
quiz:
  accept_threshold: 0.9
  default_count: 5
  reserve_whole_batch: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexiq", "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("LEXIQ_QUIZ_MAX_BUFFER_SIZE", "50")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lexiq", "config.yaml"), cfg.File)
	assert.Equal(t, "/tmp/words.db", cfg.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.9, cfg.Quiz.AcceptThreshold)
	assert.Equal(t, 5, cfg.Quiz.DefaultCount)
	assert.True(t, cfg.Quiz.ReserveWholeBatch)
	assert.Equal(t, 50, cfg.Quiz.MaxBufferSize, "env overrides file and defaults")
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"LEXIQ_QUIZ_ACCEPT_THRESHOLD", "1.5"},
		{"LEXIQ_QUIZ_MAX_BUFFER_SIZE", "0"},
		{"LEXIQ_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("INFO")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
