package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"log-analyzer/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Exporter serves a registry on /metrics.
type Exporter struct {
	server   *http.Server
	listener net.Listener
}

// NewExporter binds addr and prepares the HTTP server. The port is taken
// immediately so a busy port fails before the run starts.
func NewExporter(addr string, gatherer prometheus.Gatherer) (*Exporter, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Exporter{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
	}, nil
}

// Addr returns the bound address.
func (e *Exporter) Addr() string {
	return e.listener.Addr().String()
}

// Serve blocks until ctx is done, then shuts the server down.
func (e *Exporter) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "metrics exporter listening", zap.String("addr", e.Addr()))
		errCh <- e.server.Serve(e.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics exporter: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.InfoContext(ctx, "metrics exporter stopped")
	return nil
}
