package sink

import (
	"context"
	"fmt"
	"strings"

	"log-analyzer/internal/config"
	"log-analyzer/internal/model"
)

// Writer persists a finished tally to a destination.
type Writer interface {
	Write(ctx context.Context, t model.LevelTally) error
	Close() error
}

// Build constructs a sink for cfg.OutputPath. s3:// and http(s):// URLs pick
// the remote sinks; anything else is a local file path.
func Build(ctx context.Context, cfg config.Config) (Writer, error) {
	dest := strings.TrimSpace(cfg.OutputPath)
	lower := strings.ToLower(dest)

	switch {
	case dest == "":
		return nil, fmt.Errorf("%w: output path required", ErrOpenSink)
	case strings.HasPrefix(lower, "s3://"):
		bucket, key, err := ParseS3URL(dest)
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(client, bucket, key), nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPSink(dest, cfg.Sink.MaxRetries, cfg.Sink.BackoffBase)
	default:
		return NewFileSink(dest), nil
	}
}
