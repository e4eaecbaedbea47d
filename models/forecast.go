package models

import "time"

// ForecastPoint is the predicted demand for one half-hour period.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Demand    float64   `json:"demand"`
}

// ForecastSeries is an ordered, immutable run output.
type ForecastSeries []ForecastPoint

// First returns the earliest point. The series must not be empty.
func (s ForecastSeries) First() ForecastPoint {
	return s[0]
}

// Last returns the latest point. The series must not be empty.
func (s ForecastSeries) Last() ForecastPoint {
	return s[len(s)-1]
}

// DatedForecast is a persisted forecast artifact and the day it was generated.
type DatedForecast struct {
	Date   string         `json:"date"`
	Points ForecastSeries `json:"points"`
}
