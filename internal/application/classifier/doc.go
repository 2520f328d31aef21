// Package classifier implements the prediction service.
//
// The service owns the loaded model. Startup loads it exactly once and
// records the outcome in the health state; Predict runs one row through the
// model inside a trace span and logs the outcome. The model call is
// synchronous on the caller's goroutine, so a slow model holds only the
// request that invoked it.
//
// Errors returned by Predict are always *PredictionError; the HTTP layer maps
// them to a generic response while the detail stays in the log.
package classifier
