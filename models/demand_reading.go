package models

import "time"

// DemandReading is one settlement period of actual national demand (ND).
type DemandReading struct {
	Timestamp time.Time `json:"timestamp"`
	Demand    float64   `json:"demand"`
}

// HistoryRow is a single row of the demand history CSV before filtering.
type HistoryRow struct {
	SettlementDate          time.Time `json:"settlement_date"`
	SettlementPeriod        int       `json:"settlement_period"`
	ND                      float64   `json:"nd"`
	ForecastActualIndicator string    `json:"forecast_actual_indicator"`
}

// ActualIndicator marks rows that carry measured (not forecast) demand.
const ActualIndicator = "A"

// IsActual reports whether the row holds a measured demand value.
func (r HistoryRow) IsActual() bool {
	return r.ForecastActualIndicator == ActualIndicator
}
