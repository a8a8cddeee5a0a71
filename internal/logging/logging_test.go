package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gpstrail/internal/config"
)

func TestNewWithWriter_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))

	log.Info("hidden")
	log.Warn("shown", zap.Int("points", 3))
	require.NoError(t, log.Sync())

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "WARN")
	require.Contains(t, out, "gpstrail")
	require.Contains(t, out, `"points": 3`)
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))
	log.Debug("walk done", zap.String("path", "output.txt"))
	require.NoError(t, log.Sync())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, "walk done", rec["msg"])
	require.Equal(t, "output.txt", rec["path"])
}

func TestNewWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "loud"}, zapcore.AddSync(&buf))
	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_FileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpstrail.log")
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, zapcore.AddSync(&buf))
	log.Info("to file")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"msg":"to file"`), "file contents: %s", b)
}
