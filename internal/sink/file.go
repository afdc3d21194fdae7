package sink

import (
	"context"

	"log-analyzer/internal/model"
	"log-analyzer/internal/report"
)

// FileSink writes the report to a local path, replacing any previous file.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Write(_ context.Context, t model.LevelTally) error {
	return report.WriteFile(t, s.path)
}

func (s *FileSink) Close() error { return nil }

func (s *FileSink) String() string { return s.path }
