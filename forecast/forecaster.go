package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"grid-forecast/models"
)

const (
	// DefaultHorizonSteps covers 24 hours of half-hour periods.
	DefaultHorizonSteps = 48
	// DefaultStepMinutes is the spacing between forecast points.
	DefaultStepMinutes = 30
)

// Options controls the length and resolution of a forecast run.
type Options struct {
	HorizonSteps int
	StepMinutes  int
}

// DefaultOptions returns a 48 x 30 minute horizon.
func DefaultOptions() Options {
	return Options{HorizonSteps: DefaultHorizonSteps, StepMinutes: DefaultStepMinutes}
}

// Forecast predicts opts.HorizonSteps periods following the last reading in
// history. Each step feeds its prediction into the next step's lag_1, so the
// loop is strictly sequential. If any step fails nothing is returned.
func Forecast(ctx context.Context, history []models.DemandReading, predictor Predictor, opts Options) (models.ForecastSeries, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	for i := 1; i < len(history); i++ {
		if !history[i].Timestamp.After(history[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: reading %d at %s", ErrUnsortedHistory, i, history[i].Timestamp.Format(time.RFC3339))
		}
	}
	if opts.HorizonSteps <= 0 || opts.StepMinutes <= 0 {
		return nil, fmt.Errorf("invalid forecast options: horizon=%d step=%dm", opts.HorizonSteps, opts.StepMinutes)
	}
	// steps past the first day read lag_48 forward from the start of the snapshot
	if n := len(history); n >= lagDayPeriods && opts.HorizonSteps-lagDayPeriods >= n {
		return nil, fmt.Errorf("invalid forecast options: horizon=%d needs more than %d readings of history", opts.HorizonSteps, n)
	}

	lastTime := history[len(history)-1].Timestamp
	step := time.Duration(opts.StepMinutes) * time.Minute

	series := make(models.ForecastSeries, 0, opts.HorizonSteps)
	predictions := make([]float64, 0, opts.HorizonSteps)

	for i := 1; i <= opts.HorizonSteps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := lastTime.Add(time.Duration(i) * step)
		features := BuildFeatures(target, history, predictions, i)

		pred, err := predictor.Predict(features)
		if err != nil {
			return nil, &PredictionError{Step: i, Err: err}
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return nil, &PredictionError{Step: i, Err: fmt.Errorf("non-finite prediction %v", pred)}
		}

		series = append(series, models.ForecastPoint{Timestamp: target, Demand: pred})
		predictions = append(predictions, pred)
	}

	return series, nil
}
