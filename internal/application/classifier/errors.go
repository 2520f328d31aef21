package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotLoaded is returned when Predict runs without a loaded model
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrAlreadyStarted is returned by a second call to Startup
	ErrAlreadyStarted = errors.New("startup already ran")
)

// PredictionError is a failed model invocation
type PredictionError struct {
	TraceID string
	Err     error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
