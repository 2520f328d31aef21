package classifier

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/23f3001208/iris-classifier/internal/application/health"
	"github.com/23f3001208/iris-classifier/pkg/adapters/model/tree"
	"github.com/23f3001208/iris-classifier/pkg/domain"
	"github.com/23f3001208/iris-classifier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var traceIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

var setosa = domain.Features{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2}

// stubClassifier returns fixed labels, an error, or panics
type stubClassifier struct {
	labels []domain.Label
	err    error
	panic  bool
	closed bool
}

func (s *stubClassifier) Predict(ctx context.Context, frame *domain.Frame) ([]domain.Label, error) {
	if s.panic {
		panic("boom")
	}
	return s.labels, s.err
}

func (s *stubClassifier) Close() error {
	s.closed = true
	return nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, topic string, event domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

type recordingMetrics struct {
	loads       []bool
	predictions []string
}

func (m *recordingMetrics) ReportHealth(alive, ready bool) {}

func (m *recordingMetrics) RecordModelLoad(success bool, duration time.Duration) {
	m.loads = append(m.loads, success)
}

func (m *recordingMetrics) RecordPrediction(status string, duration time.Duration) {
	m.predictions = append(m.predictions, status)
}

func (m *recordingMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {}

type fixture struct {
	service  *Service
	state    *health.State
	logs     *observer.ObservedLogs
	spans    *tracetest.SpanRecorder
	bus      *recordingBus
	metrics  *recordingMetrics
	provider *sdktrace.TracerProvider
}

func newFixture(t *testing.T, loader Loader) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := &fixture{
		state:    health.NewState(),
		logs:     logs,
		spans:    spans,
		bus:      &recordingBus{},
		metrics:  &recordingMetrics{},
		provider: provider,
	}
	f.service = NewService(&Config{
		Loader:    loader,
		State:     f.state,
		Events:    f.bus,
		Metrics:   f.metrics,
		Tracer:    provider.Tracer(TracerName),
		Logger:    zap.New(core),
		ModelPath: "model.json",
	})
	return f
}

func loaderFor(c ports.Classifier) Loader {
	return func(ctx context.Context) (ports.Classifier, error) { return c, nil }
}

func TestStartupSuccess(t *testing.T) {
	f := newFixture(t, func(ctx context.Context) (ports.Classifier, error) {
		return tree.Load("../../../pkg/adapters/model/tree/testdata/iris_tree.json")
	})

	require.NoError(t, f.service.Startup(context.Background()))

	alive, ready := f.state.Snapshot()
	assert.True(t, alive)
	assert.True(t, ready)
	assert.Equal(t, []bool{true}, f.metrics.loads)

	startup := f.logs.FilterField(zap.String("event", "startup")).All()
	require.Len(t, startup, 2)
	assert.Equal(t, "Loading model", startup[0].Message)
	assert.Equal(t, "Model loaded successfully", startup[1].Message)
}

func TestStartupFailure(t *testing.T) {
	f := newFixture(t, func(ctx context.Context) (ports.Classifier, error) {
		return tree.Load("does-not-exist.json")
	})

	err := f.service.Startup(context.Background())
	require.Error(t, err)

	alive, ready := f.state.Snapshot()
	assert.False(t, alive)
	assert.False(t, ready)
	assert.Equal(t, []bool{false}, f.metrics.loads)

	entries := f.logs.FilterField(zap.String("event", "startup_error")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "failed to read model artifact")

	// Predictions keep failing; the model is never retried
	_, err = f.service.Predict(context.Background(), setosa)
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	assert.False(t, f.state.IsReady())
}

func TestStartupRunsOnce(t *testing.T) {
	calls := 0
	f := newFixture(t, func(ctx context.Context) (ports.Classifier, error) {
		calls++
		return &stubClassifier{}, nil
	})

	require.NoError(t, f.service.Startup(context.Background()))
	assert.ErrorIs(t, f.service.Startup(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 1, calls)
}

func TestStartupDelay(t *testing.T) {
	f := newFixture(t, loaderFor(&stubClassifier{}))
	f.service.startupDelay = 30 * time.Millisecond

	start := time.Now()
	require.NoError(t, f.service.Startup(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPredictSuccess(t *testing.T) {
	f := newFixture(t, loaderFor(&stubClassifier{labels: []domain.Label{"setosa"}}))
	require.NoError(t, f.service.Startup(context.Background()))

	prediction, err := f.service.Predict(context.Background(), setosa)
	require.NoError(t, err)

	assert.Equal(t, "setosa", prediction.PredictedClass)
	assert.GreaterOrEqual(t, prediction.LatencyMs, 0.0)
	assert.Regexp(t, traceIDPattern, prediction.TraceID)

	// One span whose trace id is the one returned
	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, SpanName, ended[0].Name())
	assert.Equal(t, prediction.TraceID, ended[0].SpanContext().TraceID().String())

	// One structured success line
	entries := f.logs.FilterField(zap.String("event", "prediction")).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, prediction.TraceID, fields["trace_id"])
	assert.Equal(t, StatusSuccess, fields["status"])
	assert.Equal(t, prediction.LatencyMs, fields["latency_ms"])
	assert.Equal(t, setosa, fields["input"])
	assert.Equal(t, map[string]interface{}{"predicted_class": "setosa"}, fields["result"])

	assert.Equal(t, []string{StatusSuccess}, f.metrics.predictions)
	require.Len(t, f.bus.events, 1)
	assert.Equal(t, domain.EventTypePredictionSucceeded, f.bus.events[0].Type)
	assert.Equal(t, prediction.TraceID, f.bus.events[0].TraceID)
	assert.NotEmpty(t, f.bus.events[0].ID)
}

func TestPredictModelError(t *testing.T) {
	modelErr := errors.New("X has 3 features, but model is expecting 4")
	f := newFixture(t, loaderFor(&stubClassifier{err: modelErr}))
	require.NoError(t, f.service.Startup(context.Background()))

	prediction, err := f.service.Predict(context.Background(), setosa)
	require.Error(t, err)
	assert.Nil(t, prediction)
	assert.ErrorIs(t, err, modelErr)

	var predErr *PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Regexp(t, traceIDPattern, predErr.TraceID)

	entries := f.logs.FilterField(zap.String("event", "prediction_error")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, predErr.TraceID, entries[0].ContextMap()["trace_id"])
	assert.Equal(t, modelErr.Error(), entries[0].ContextMap()["error"])

	assert.Empty(t, f.logs.FilterField(zap.String("event", "prediction")).All())

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	assert.Equal(t, []string{StatusError}, f.metrics.predictions)
	require.Len(t, f.bus.events, 1)
	assert.Equal(t, domain.EventTypePredictionFailed, f.bus.events[0].Type)
}

func TestPredictModelPanic(t *testing.T) {
	f := newFixture(t, loaderFor(&stubClassifier{panic: true}))
	require.NoError(t, f.service.Startup(context.Background()))

	_, err := f.service.Predict(context.Background(), setosa)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model panicked: boom")
}

func TestPredictWrongLabelCount(t *testing.T) {
	f := newFixture(t, loaderFor(&stubClassifier{labels: []domain.Label{}}))
	require.NoError(t, f.service.Startup(context.Background()))

	_, err := f.service.Predict(context.Background(), setosa)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model returned 0 labels for 1 rows")
}

func TestPredictPublishFailureDoesNotFailPrediction(t *testing.T) {
	f := newFixture(t, loaderFor(&stubClassifier{labels: []domain.Label{float64(2)}}))
	f.bus.err = errors.New("redis down")
	require.NoError(t, f.service.Startup(context.Background()))

	prediction, err := f.service.Predict(context.Background(), setosa)
	require.NoError(t, err)
	assert.Equal(t, float64(2), prediction.PredictedClass)
	assert.Len(t, f.logs.FilterMessage("failed to publish prediction event").All(), 1)
}

func TestPredictWithoutOptionalDependencies(t *testing.T) {
	service := NewService(&Config{
		Loader: loaderFor(&stubClassifier{labels: []domain.Label{"setosa"}}),
		State:  health.NewState(),
		Logger: zap.NewNop(),
	})
	require.NoError(t, service.Startup(context.Background()))

	prediction, err := service.Predict(context.Background(), setosa)
	require.NoError(t, err)
	assert.Equal(t, "setosa", prediction.PredictedClass)
	assert.Regexp(t, traceIDPattern, prediction.TraceID)
	assert.NotEqual(t, strings.Repeat("0", 32), prediction.TraceID)
}

func TestClose(t *testing.T) {
	stub := &stubClassifier{}
	f := newFixture(t, loaderFor(stub))

	assert.NoError(t, f.service.Close())
	require.NoError(t, f.service.Startup(context.Background()))
	assert.NoError(t, f.service.Close())
	assert.True(t, stub.closed)
}

func TestRoundMillis(t *testing.T) {
	assert.Equal(t, 0.0, RoundMillis(0))
	assert.Equal(t, 1.23, RoundMillis(1234*time.Microsecond))
	assert.Equal(t, 1.24, RoundMillis(1235*time.Microsecond+time.Nanosecond))
	assert.Equal(t, 2000.0, RoundMillis(2*time.Second))
}
