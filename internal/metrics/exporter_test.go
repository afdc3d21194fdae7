package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"log-analyzer/internal/model"
)

func TestExporterServesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewCollector()
	c.LinesRead(5)
	c.LevelCounted(model.LevelWarning, 2)

	exp, err := NewExporter("127.0.0.1:0", c.Registry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- exp.Serve(ctx) }()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	resp, err := client.Get("http://" + exp.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "log_analyzer_lines_processed_total 5")
	assert.Contains(t, string(body), `log_analyzer_level_count{level="WARNING"} 2`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("exporter did not stop")
	}
	transport.CloseIdleConnections()
}

func TestNewExporterPortInUse(t *testing.T) {
	first, err := NewExporter("127.0.0.1:0", NewCollector().Registry())
	require.NoError(t, err)
	defer first.listener.Close()

	_, err = NewExporter(first.Addr(), NewCollector().Registry())
	assert.Error(t, err)
}
