package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.With(String("scrape_id", "abc")).Info("Scrape finished",
		Int("cookies", 3),
		Duration("elapsed", time.Second),
		Bool("legacy", false),
		Err(errors.New("boom")),
	)
	log.Debug("dropped below level")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Scrape finished", entry["msg"])
	assert.Equal(t, "abc", entry["scrape_id"])
	assert.InDelta(t, 3, entry["cookies"], 0)
	assert.Equal(t, "boom", entry["error"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.With(String("k", "v")).Error("ignored")
		_ = log.Sync()
	})
}
