package models

// FeatureNames is the column order the regression model was fitted with.
var FeatureNames = []string{"SETTLEMENT_PERIOD", "month", "dayofweek", "lag_1", "lag_48"}

// FeatureVector holds the model inputs for one half-hour target.
// DayOfWeek uses Monday=0 ... Sunday=6.
type FeatureVector struct {
	SettlementPeriod int     `json:"settlement_period"`
	Month            int     `json:"month"`
	DayOfWeek        int     `json:"day_of_week"`
	Lag1             float64 `json:"lag_1"`
	Lag48            float64 `json:"lag_48"`
}

// Values returns the features in FeatureNames order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.SettlementPeriod),
		float64(f.Month),
		float64(f.DayOfWeek),
		f.Lag1,
		f.Lag48,
	}
}
