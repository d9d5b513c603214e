package iologger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}

	require.NoError(t, Init(dir, cfg, false))
	slog.Info("first message")
	slog.Debug("hidden message")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first message")
	assert.NotContains(t, string(data), "hidden message")

	require.NoError(t, Init(dir, cfg, true))
	slog.Info("second message")
	require.NoError(t, Close())

	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first message")
	assert.Contains(t, string(data), "second message")
}

func TestInitBadDir(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	err := Init(filepath.Join(t.TempDir(), "no", "such"), cfg, false)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, v := range tests {
		t.Run(v.in, func(t *testing.T) {
			assert.Equal(t, v.out, parseLevel(v.in))
		})
	}
}

func TestPrintAnomalies(t *testing.T) {
	// nothing recorded, nothing printed
	PrintAnomalies(nil)
	PrintAnomalies(anomaly.New())

	c := anomaly.New()
	for i := range 5 {
		c.Add(anomaly.MissingPSMSet, "set %d is missing", i)
	}
	assert.NotPanics(t, func() { PrintAnomalies(c) })
}
