package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.log")

	l, err := New(Options{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	l.Info("read complete", zap.Int("lines", 4))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "read complete", entry["msg"])
	assert.Equal(t, float64(4), entry["lines"])
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestWithContextAddsRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := ContextWithRunID(context.Background(), "run-123")
	InfoContext(ctx, "with id")
	Warn("without id")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-123", entries[0].ContextMap()["run_id"])
	_, ok := entries[1].ContextMap()["run_id"]
	assert.False(t, ok)
	assert.Equal(t, "run-123", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))
}
