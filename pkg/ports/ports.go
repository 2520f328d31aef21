package ports

import (
	"context"
	"time"

	"github.com/23f3001208/iris-classifier/pkg/domain"
)

// Classifier is a loaded, read-only model. Implementations must be safe for
// concurrent use.
type Classifier interface {
	// Predict returns one label per frame row
	Predict(ctx context.Context, frame *domain.Frame) ([]domain.Label, error)
	// Close releases resources held by the model
	Close() error
}

// EventHandler handles an event delivered by an EventBus
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes and delivers prediction events
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	// Subscribe delivers events on topic to handler until ctx is done
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}

// HealthReporter receives the service health state
type HealthReporter interface {
	ReportHealth(alive, ready bool)
}

// MetricsCollector records service metrics
type MetricsCollector interface {
	HealthReporter
	RecordModelLoad(success bool, duration time.Duration)
	RecordPrediction(status string, duration time.Duration)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}
