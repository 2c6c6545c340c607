package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider_Disabled(t *testing.T) {
	shutdown, err := NewProvider(Config{ServiceName: "noteshare"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	shutdown(context.Background())
}

func TestNewProvider_Stdout(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var buf bytes.Buffer
	shutdown, err := NewProvider(Config{ServiceName: "noteshare", ServiceVersion: "test", Stdout: &buf},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry.test").Start(context.Background(), "DocumentService.GetDocument")
	span.End()

	// Shutdown flushes the batcher
	shutdown(context.Background())

	assert.Contains(t, buf.String(), "DocumentService.GetDocument")
	assert.Contains(t, buf.String(), "noteshare")
}
