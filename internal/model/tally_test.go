package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"error", "Error", " ERROR "} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, LevelError, got)
	}

	_, err := ParseLevel("debug")
	assert.Error(t, err)
}

func TestParseFilterEmptyMeansNone(t *testing.T) {
	got, err := ParseFilter("  ")
	require.NoError(t, err)
	assert.Equal(t, Level(""), got)

	got, err = ParseFilter("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, got)
}

func TestTallyAddAndGet(t *testing.T) {
	var tally LevelTally
	tally.Add(LevelError)
	tally.Add(LevelError)
	tally.Add(LevelInfo)
	tally.Add(Level("DEBUG"))

	assert.Equal(t, 2, tally.Get(LevelError))
	assert.Equal(t, 0, tally.Get(LevelWarning))
	assert.Equal(t, 1, tally.Get(LevelInfo))
	assert.Equal(t, 3, tally.Total())
}

func TestZeroTallyKeepsAllKeys(t *testing.T) {
	data, err := json.Marshal(LevelTally{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ERROR":0,"WARNING":0,"INFO":0}`, string(data))
	assert.Equal(t, map[string]int{"ERROR": 0, "WARNING": 0, "INFO": 0}, LevelTally{}.Map())
}

func TestTallyString(t *testing.T) {
	tally := LevelTally{Error: 2, Warning: 1, Info: 1}
	assert.Equal(t, "ERROR: 2, WARNING: 1, INFO: 1", tally.String())
}
