// Package ports defines the interfaces the classifier service depends on.
//
// Adapters under pkg/adapters implement them:
//   - Classifier: model/tree, model/onnx
//   - EventBus: events/memory, events/redis
//   - MetricsCollector: metrics/prometheus
//   - HealthReporter: metrics/prometheus, api/grpc
package ports
