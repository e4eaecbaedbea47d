package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"grid-forecast/models"
)

// MAPE returns the mean absolute percentage error of forecast against actual
// over the timestamps present in both. An actual of exactly zero makes the
// result infinite or NaN.
func MAPE(actual, forecast map[time.Time]float64) (float64, error) {
	errs := make([]float64, 0, len(forecast))
	for ts, f := range forecast {
		a, ok := actual[ts]
		if !ok {
			continue
		}
		errs = append(errs, math.Abs(a-f)/math.Abs(a))
	}
	if len(errs) == 0 {
		return 0, ErrInsufficientOverlap
	}
	return stat.Mean(errs, nil) * 100, nil
}

// OverlapCount returns how many timestamps appear in both series.
func OverlapCount(actual, forecast map[time.Time]float64) int {
	n := 0
	for ts := range forecast {
		if _, ok := actual[ts]; ok {
			n++
		}
	}
	return n
}

// ReadingsToMap indexes readings by UTC timestamp.
func ReadingsToMap(readings []models.DemandReading) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(readings))
	for _, r := range readings {
		out[r.Timestamp.UTC()] = r.Demand
	}
	return out
}

// SeriesToMap indexes forecast points by UTC timestamp.
func SeriesToMap(series models.ForecastSeries) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(series))
	for _, p := range series {
		out[p.Timestamp.UTC()] = p.Demand
	}
	return out
}
