package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/slipstream/internal/config"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("run ended", "score", 12.5)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "run ended")
	assert.Contains(t, out, "score=12.5")
	assert.Contains(t, out, "slipstream")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("tick", "n", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tick", entry["msg"])
	assert.Equal(t, float64(3), entry["n"])
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "game.log")

	logger, closeFn, err := Open(config.LogConfig{Level: "info", Format: "text", File: path}, nil)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestOpenFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := Open(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)
	logger.Warn("careful")
	assert.NoError(t, closeFn())
	assert.Contains(t, buf.String(), "careful")
}
