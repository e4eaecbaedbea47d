package models

import "time"

// ForecastAccuracy is the MAPE of one forecast artifact against actuals.
// MAPE is nil when the forecast and actuals share no timestamps.
type ForecastAccuracy struct {
	Date          string   `json:"date"`
	OverlapPoints int      `json:"overlap_points"`
	MAPE          *float64 `json:"mape,omitempty"`
}

// Dashboard is everything the front end needs to draw one page.
type Dashboard struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Actuals     []DemandReading    `json:"actuals"`
	Forecasts   []DatedForecast    `json:"forecasts"`
	Accuracy    []ForecastAccuracy `json:"accuracy"`
	OverallMAPE *float64           `json:"overall_mape,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// RunSummary describes one completed forecast run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Date       string    `json:"date"`
	Key        string    `json:"key"`
	Points     int       `json:"points"`
	FirstPoint time.Time `json:"first_point"`
	LastPoint  time.Time `json:"last_point"`
	Readings   int       `json:"readings"`
}
