package domain

import "time"

// EventType identifies what happened to a prediction
type EventType string

const (
	EventTypePredictionSucceeded EventType = "prediction.succeeded"
	EventTypePredictionFailed    EventType = "prediction.failed"
)

// TopicPredictions is the event bus topic prediction events are published on
const TopicPredictions = "predictions"

// Event is a prediction event published on the event bus
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	TraceID   string                 `json:"trace_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
