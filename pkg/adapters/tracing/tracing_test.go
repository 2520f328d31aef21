package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	for _, exporter := range []string{ExporterNone, ExporterStdout} {
		t.Run(exporter, func(t *testing.T) {
			provider, err := NewProvider(ctx, &Config{
				Exporter:     exporter,
				OTLPEndpoint: "localhost:4317",
				OTLPInsecure: true,
				ServiceName:  "iris-test",
			})
			require.NoError(t, err)
			defer provider.Shutdown(ctx)

			_, span := otel.Tracer("test").Start(ctx, "op")
			sc := span.SpanContext()
			span.End()

			assert.True(t, sc.IsValid())
			assert.Len(t, sc.TraceID().String(), 32)
		})
	}
}

func TestNewProviderOTLP(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector is needed to build it
	provider, err := NewProvider(context.Background(), &Config{
		Exporter:     ExporterOTLP,
		OTLPEndpoint: "localhost:4317",
		OTLPInsecure: true,
		ServiceName:  "iris-test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = provider.Shutdown(ctx)
}

func TestNewProviderUnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), &Config{Exporter: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}
