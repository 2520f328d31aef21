// Package health holds the service health state and reports it.
//
// State is written only by the classifier startup routine: the service starts
// alive and not ready, becomes ready once the model loads, and is marked not
// alive if loading fails. Nothing moves it back afterwards.
//
// The monitor pushes the state to reporters (Prometheus gauges, the gRPC
// health service) on start and then periodically, and logs while degraded.
package health
