package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.InfoLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(Config{Level: "info", OutputPath: out})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("uploaded", zap.String("path", "/backup/multichunks/m1"))
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1, "debug is below the level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "uploaded", entry["msg"])
	require.Equal(t, "/backup/multichunks/m1", entry["path"])
}

func TestNewConsole(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.txt")
	logger, err := New(Config{Level: "debug", Format: "console", OutputPath: out})
	require.NoError(t, err)

	logger.Debug("probing")
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), "probing")
	require.Contains(t, string(b), "DEBUG")
}

func TestNewErrors(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	require.Error(t, err)

	_, err = New(Config{Level: "chatty"})
	require.Error(t, err)
}
