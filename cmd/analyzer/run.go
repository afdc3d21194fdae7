package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"log-analyzer/internal/analyzer"
	"log-analyzer/internal/config"
	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/logger"
	"log-analyzer/internal/metrics"
	"log-analyzer/internal/model"
	"log-analyzer/internal/reader"
	"log-analyzer/internal/sink"
)

// run performs one analysis with cfg and prints the tally to stdout.
func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (err error) {
	l, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	prev := logger.Logger()
	logger.SetLogger(l)
	defer func() {
		_ = logger.Sync()
		logger.SetLogger(prev)
	}()

	ctx = logger.ContextWithRunID(ctx, uuid.NewString())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "analysis failed",
				zap.String("stage", analyzer.FailedStage(err)),
				zap.String("kind", apperr.KindOf(err).String()),
				zap.Error(err))
			fmt.Fprintf(stderr, "error: %s\n", describe(err))
		}
	}()

	filter, err := model.ParseFilter(cfg.Level)
	if err != nil {
		return err
	}
	rdr, err := reader.New(reader.Options{Encoding: cfg.Encoding, Errors: reader.DecodeMode(cfg.DecodeErrors)})
	if err != nil {
		return err
	}
	w, err := sink.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.InfoContext(ctx, "starting analysis",
		zap.String("input", cfg.InputPath),
		zap.String("output", cfg.OutputPath),
		zap.String("level", string(filter)))

	if !cfg.Metrics.Enabled {
		tally, err := analyzer.New(rdr, filter, w, nil).Run(ctx, cfg.InputPath)
		if err != nil {
			return err
		}
		printTally(ctx, stdout, tally)
		return nil
	}

	collector := metrics.NewCollector()
	exporter, err := metrics.NewExporter(cfg.Metrics.Addr, collector.Registry())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServing := context.WithCancel(gctx)
	defer stopServing()

	g.Go(func() error {
		return exporter.Serve(serveCtx)
	})
	g.Go(func() error {
		defer stopServing()
		tally, err := analyzer.New(rdr, filter, w, collector).Run(gctx, cfg.InputPath)
		if err != nil {
			return err
		}
		printTally(ctx, stdout, tally)
		return linger(gctx, cfg.Metrics.Linger)
	})
	return g.Wait()
}

// linger keeps the exporter reachable for d after the run, or until ctx ends.
func linger(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	logger.InfoContext(ctx, "serving metrics after run", zap.Duration("linger", d))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return nil
}

func printTally(ctx context.Context, w io.Writer, t model.LevelTally) {
	logger.InfoContext(ctx, "analysis complete",
		zap.Int("error", t.Error), zap.Int("warning", t.Warning), zap.Int("info", t.Info))
	fmt.Fprintln(w, t.String())
}

func describe(err error) string {
	var se *analyzer.StageError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s stage failed: %v", se.Stage, se.Err)
	}
	return err.Error()
}
