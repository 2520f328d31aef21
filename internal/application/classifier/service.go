package classifier

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/23f3001208/iris-classifier/internal/application/health"
	"github.com/23f3001208/iris-classifier/pkg/domain"
	"github.com/23f3001208/iris-classifier/pkg/ports"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Prediction outcomes used in logs and metrics
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// TracerName is the instrumentation name of the service's spans
const TracerName = "iris-ml-service"

// SpanName is the name of the span opened for each prediction
const SpanName = "iris_prediction"

// Loader loads the model artifact
type Loader func(ctx context.Context) (ports.Classifier, error)

// Config holds the service dependencies. Events, Metrics and Tracer are
// optional; without a Tracer spans are created but never exported.
type Config struct {
	Loader       Loader
	State        *health.State
	Events       ports.EventBus
	Metrics      ports.MetricsCollector
	Tracer       trace.Tracer
	Logger       *zap.Logger
	ModelPath    string
	StartupDelay time.Duration
}

// Service runs predictions against the model loaded at startup
type Service struct {
	loader       Loader
	state        *health.State
	events       ports.EventBus
	metrics      ports.MetricsCollector
	tracer       trace.Tracer
	logger       *zap.Logger
	modelPath    string
	startupDelay time.Duration

	started atomic.Bool

	// Written once by Startup before traffic is accepted, read-only after
	classifier ports.Classifier
}

// NewService creates a new classifier service
func NewService(cfg *Config) *Service {
	// Without a tracer the service still needs real trace ids, which the
	// global no-op provider does not produce
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = sdktrace.NewTracerProvider().Tracer(TracerName)
	}

	return &Service{
		loader:       cfg.Loader,
		state:        cfg.State,
		events:       cfg.Events,
		metrics:      cfg.Metrics,
		tracer:       tracer,
		logger:       cfg.Logger,
		modelPath:    cfg.ModelPath,
		startupDelay: cfg.StartupDelay,
	}
}

// Startup loads the model. On success the service becomes ready; on failure
// it is marked not alive and stays that way. Either way the process is
// expected to keep serving so probes can observe the outcome.
func (s *Service) Startup(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.logger.Info("Loading model",
		zap.String("event", "startup"),
		zap.String("model_path", s.modelPath))

	start := time.Now()

	if s.startupDelay > 0 {
		time.Sleep(s.startupDelay)
	}

	classifier, err := s.loader(ctx)
	duration := time.Since(start)

	if err != nil {
		s.state.MarkFailed()
		if s.metrics != nil {
			s.metrics.RecordModelLoad(false, duration)
		}

		s.logger.Error("Model load failed",
			zap.String("event", "startup_error"),
			zap.String("model_path", s.modelPath),
			zap.Error(err))

		return fmt.Errorf("failed to load model: %w", err)
	}

	s.classifier = classifier
	s.state.MarkReady()
	if s.metrics != nil {
		s.metrics.RecordModelLoad(true, duration)
	}

	s.logger.Info("Model loaded successfully",
		zap.String("event", "startup"),
		zap.String("model_path", s.modelPath),
		zap.Duration("duration", duration))

	return nil
}

// Predict classifies one set of features
func (s *Service) Predict(ctx context.Context, features domain.Features) (*domain.Prediction, error) {
	ctx, span := s.tracer.Start(ctx, SpanName)
	defer span.End()

	start := time.Now()
	traceID := span.SpanContext().TraceID().String()

	label, err := s.invoke(ctx, features.Frame())
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")

		s.logger.Error("Prediction failed",
			zap.String("event", "prediction_error"),
			zap.String("trace_id", traceID),
			zap.Error(err))

		s.record(StatusError, elapsed)
		s.publish(ctx, domain.EventTypePredictionFailed, traceID, map[string]interface{}{
			"input": features,
		})

		return nil, &PredictionError{TraceID: traceID, Err: err}
	}

	latency := RoundMillis(elapsed)

	span.SetAttributes(
		attribute.String("iris.predicted_class", fmt.Sprint(label)),
		attribute.Float64("iris.latency_ms", latency),
	)

	s.logger.Info("Prediction completed",
		zap.String("event", "prediction"),
		zap.String("trace_id", traceID),
		zap.Any("input", features),
		zap.Any("result", map[string]interface{}{"predicted_class": label}),
		zap.Float64("latency_ms", latency),
		zap.String("status", StatusSuccess))

	s.record(StatusSuccess, elapsed)
	s.publish(ctx, domain.EventTypePredictionSucceeded, traceID, map[string]interface{}{
		"input":           features,
		"predicted_class": label,
		"latency_ms":      latency,
	})

	return &domain.Prediction{
		PredictedClass: label,
		LatencyMs:      latency,
		TraceID:        traceID,
	}, nil
}

// Close releases the model
func (s *Service) Close() error {
	if s.classifier == nil {
		return nil
	}
	return s.classifier.Close()
}

// invoke runs a single-row frame through the model. A panicking model is
// treated like one returning an error.
func (s *Service) invoke(ctx context.Context, frame *domain.Frame) (label domain.Label, err error) {
	if s.classifier == nil {
		return nil, ErrModelNotLoaded
	}

	defer func() {
		if r := recover(); r != nil {
			label = nil
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()

	labels, err := s.classifier.Predict(ctx, frame)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(frame.Rows) {
		return nil, fmt.Errorf("model returned %d labels for %d rows", len(labels), len(frame.Rows))
	}

	return labels[0], nil
}

// record reports a prediction outcome to metrics
func (s *Service) record(status string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordPrediction(status, elapsed)
	}
}

// publish sends a prediction event. Failures are logged and never fail the
// prediction.
func (s *Service) publish(ctx context.Context, eventType domain.EventType, traceID string, data map[string]interface{}) {
	if s.events == nil {
		return
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	if err := s.events.Publish(ctx, domain.TopicPredictions, event); err != nil {
		s.logger.Warn("failed to publish prediction event",
			zap.String("trace_id", traceID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

// RoundMillis converts d to milliseconds rounded to 2 decimals
func RoundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
