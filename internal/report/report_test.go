package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/model"
)

func TestWriteFileCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_report.json")

	require.NoError(t, WriteFile(model.LevelTally{Error: 1, Warning: 2, Info: 3}, path))
	assert.FileExists(t, path)
}

func TestWriteFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteFile(model.LevelTally{Error: 2, Warning: 1, Info: 1}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"ERROR\": 2,\n    \"WARNING\": 1,\n    \"INFO\": 1\n}", string(data))
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	want := model.LevelTally{Error: 5, Warning: 3, Info: 10}
	require.NoError(t, WriteFile(want, path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	tally := model.LevelTally{Error: 7, Info: 1}

	require.NoError(t, WriteFile(tally, first))
	a, err := os.ReadFile(first)
	require.NoError(t, err)

	require.NoError(t, WriteFile(tally, first))
	b, err := os.ReadFile(first)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the report body ......"), 0o644))

	require.NoError(t, WriteFile(model.LevelTally{}, path))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.LevelTally{}, got)
}

func TestWriteFileMissingParentIsWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")

	err := WriteFile(model.LevelTally{}, path)
	require.Error(t, err)
	assert.Equal(t, apperr.KindWrite, apperr.KindOf(err))
}
