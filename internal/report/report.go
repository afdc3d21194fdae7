package report

import (
	"encoding/json"
	"os"

	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/model"
)

// Indent is the per-level indentation of the JSON report.
const Indent = "    "

// Encode renders the tally as an indented JSON object keyed ERROR, WARNING,
// INFO. Equal tallies always encode to identical bytes.
func Encode(t model.LevelTally) ([]byte, error) {
	return json.MarshalIndent(t, "", Indent)
}

// Decode parses a report produced by Encode.
func Decode(data []byte) (model.LevelTally, error) {
	var t model.LevelTally
	if err := json.Unmarshal(data, &t); err != nil {
		return model.LevelTally{}, err
	}
	return t, nil
}

// WriteFile writes the tally to path, replacing any existing file. The parent
// directory must already exist.
func WriteFile(t model.LevelTally, path string) error {
	data, err := Encode(t)
	if err != nil {
		return apperr.E(apperr.KindWrite, "write", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.E(apperr.KindWrite, "write", path, err)
	}
	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (model.LevelTally, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.LevelTally{}, apperr.FromFS("read", path, err)
	}
	return Decode(data)
}
