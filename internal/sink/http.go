package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/logger"
	"log-analyzer/internal/model"
	"log-analyzer/internal/report"
)

// HTTPSink posts the report to an HTTP endpoint.
type HTTPSink struct {
	url         string
	client      *http.Client
	maxRetries  int
	backoffBase time.Duration
}

// NewHTTPSink creates a new HTTP sink.
func NewHTTPSink(url string, maxRetries int, backoffBase time.Duration) (*HTTPSink, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: URL required for HTTP sink", ErrOpenSink)
	}
	if _, err := http.NewRequest(http.MethodPost, url, nil); err != nil {
		return nil, fmt.Errorf("%w: invalid URL: %v", ErrOpenSink, err)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &HTTPSink{
		url:         url,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Write sends the report, retrying failed attempts with exponential backoff.
func (hs *HTTPSink) Write(ctx context.Context, t model.LevelTally) error {
	data, err := report.Encode(t)
	if err != nil {
		return apperr.E(apperr.KindWrite, "write", hs.url, fmt.Errorf("%w: marshal error: %v", ErrWriteSink, err))
	}

	var lastErr error
	for attempt := 0; attempt <= hs.maxRetries; attempt++ {
		if attempt > 0 {
			logger.WarnContext(ctx, "retrying report delivery",
				zap.String("url", hs.url), zap.Int("attempt", attempt), zap.Error(lastErr))
			if err := sleep(ctx, hs.backoffBase*time.Duration(1<<(attempt-1))); err != nil {
				return apperr.E(apperr.KindWrite, "write", hs.url, err)
			}
		}

		lastErr = hs.post(ctx, data)
		if lastErr == nil {
			return nil
		}
	}

	return apperr.E(apperr.KindWrite, "write", hs.url, lastErr)
}

func (hs *HTTPSink) post(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hs.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrWriteSink, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hs.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request failed: %v", ErrWriteSink, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("%w: http error status %d", ErrWriteSink, resp.StatusCode)
}

// Close closes the HTTP sink (no-op for HTTP).
func (hs *HTTPSink) Close() error {
	if hs.client != nil {
		hs.client.CloseIdleConnections()
	}
	return nil
}

func (hs *HTTPSink) String() string { return hs.url }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
