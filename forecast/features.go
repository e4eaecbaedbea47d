package forecast

import (
	"time"

	"grid-forecast/models"
)

// lagDayPeriods is how far back the daily lag looks.
const lagDayPeriods = 48

// BuildFeatures computes the model inputs for the step-th target of a run.
//
// history is the snapshot taken before the run started and is never extended
// with predictions; pending holds the predictions made so far in this run.
// step is 1-based. With no prediction and no history lag_1 is 0; lag_48 falls
// back to lag_1 when the snapshot is shorter than a day or the offset lands
// outside it.
func BuildFeatures(target time.Time, history []models.DemandReading, pending []float64, step int) models.FeatureVector {
	var lag1 float64
	switch {
	case len(pending) > 0:
		lag1 = pending[len(pending)-1]
	case len(history) > 0:
		lag1 = history[len(history)-1].Demand
	}

	lag48 := lag1
	if len(history) >= lagDayPeriods {
		if i := snapshotIndex(len(history), step-lagDayPeriods); i >= 0 && i < len(history) {
			lag48 = history[i].Demand
		}
	}

	return models.FeatureVector{
		SettlementPeriod: PeriodOf(target),
		Month:            int(target.Month()),
		DayOfWeek:        MondayFirstWeekday(target),
		Lag1:             lag1,
		Lag48:            lag48,
	}
}

// snapshotIndex resolves a signed offset into the snapshot: negative offsets
// count back from the end, zero and positive offsets count from the start.
func snapshotIndex(n, offset int) int {
	if offset < 0 {
		return n + offset
	}
	return offset
}

// MondayFirstWeekday maps t's weekday to Monday=0 ... Sunday=6, the
// convention the model was trained with.
func MondayFirstWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
