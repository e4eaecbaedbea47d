package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeriod is returned for settlement periods outside [1, 48].
	ErrInvalidPeriod = errors.New("invalid settlement period")
	// ErrEmptyHistory is returned when a forecast is requested without readings.
	ErrEmptyHistory = errors.New("empty demand history")
	// ErrUnsortedHistory is returned when readings are not strictly ascending.
	ErrUnsortedHistory = errors.New("demand history is not sorted by timestamp")
	// ErrPredictionFailure marks a run aborted by the predictor.
	ErrPredictionFailure = errors.New("prediction failure")
	// ErrInsufficientOverlap is returned when actuals and forecast share no timestamps.
	ErrInsufficientOverlap = errors.New("insufficient overlap between actual and forecast")
)

// PredictionError reports the step at which the predictor failed.
type PredictionError struct {
	Step int
	Err  error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%v at step %d: %v", ErrPredictionFailure, e.Step, e.Err)
}

func (e *PredictionError) Unwrap() []error {
	return []error{ErrPredictionFailure, e.Err}
}
