// Package analyzer runs one read, classify, write pass over a log file.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"log-analyzer/internal/logger"
	"log-analyzer/internal/model"
	"log-analyzer/internal/reader"
	"log-analyzer/internal/sink"
	"log-analyzer/internal/stages"
)

// Stage names reported to observers and in errors.
const (
	StageRead     = "read"
	StageClassify = "classify"
	StageWrite    = "write"
)

// Observer receives progress from a run. Implementations must not block.
type Observer interface {
	LinesRead(n int)
	LevelCounted(level model.Level, n int)
	StageFailed(stage string, err error)
	StageDone(stage string, d time.Duration)
}

// StageError records which stage aborted a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage that produced err, or "" if none is recorded.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Analyzer wires the reader, classifier and report sink together.
type Analyzer struct {
	reader     *reader.Reader
	classifier *stages.Classifier
	sink       sink.Writer
	observer   Observer
}

// New constructs an Analyzer. A nil observer discards all events.
func New(r *reader.Reader, filter model.Level, w sink.Writer, obs Observer) *Analyzer {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Analyzer{
		reader:     r,
		classifier: stages.NewClassifier(filter),
		sink:       w,
		observer:   obs,
	}
}

// Run reads path, counts its level markers and persists the tally. The first
// failing stage aborts the run.
func (a *Analyzer) Run(ctx context.Context, path string) (model.LevelTally, error) {
	log := logger.WithContext(ctx)

	start := time.Now()
	content, err := a.reader.Read(path)
	if err != nil {
		return model.LevelTally{}, a.fail(StageRead, err)
	}
	lines := reader.CountLines(content)
	a.observer.LinesRead(lines)
	a.observer.StageDone(StageRead, time.Since(start))
	log.Info("log file read", zap.String("path", path), zap.Int("lines", lines), zap.Int("bytes", len(content)))

	start = time.Now()
	tally := a.classifier.Classify(content)
	for _, l := range model.Levels {
		a.observer.LevelCounted(l, tally.Get(l))
	}
	a.observer.StageDone(StageClassify, time.Since(start))
	log.Debug("levels classified", zap.Int("matches", tally.Total()))

	start = time.Now()
	if err := a.sink.Write(ctx, tally); err != nil {
		return model.LevelTally{}, a.fail(StageWrite, err)
	}
	a.observer.StageDone(StageWrite, time.Since(start))
	log.Info("report written", zap.String("destination", fmt.Sprint(a.sink)))

	return tally, nil
}

func (a *Analyzer) fail(stage string, err error) error {
	a.observer.StageFailed(stage, err)
	return &StageError{Stage: stage, Err: err}
}

type nopObserver struct{}

func (nopObserver) LinesRead(int)                   {}
func (nopObserver) LevelCounted(model.Level, int)   {}
func (nopObserver) StageFailed(string, error)       {}
func (nopObserver) StageDone(string, time.Duration) {}
