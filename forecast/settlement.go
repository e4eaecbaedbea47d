package forecast

import (
	"fmt"
	"time"
)

const (
	// PeriodsPerDay is the number of settlement periods in a calendar day.
	PeriodsPerDay = 48
	// PeriodMinutes is the length of one settlement period.
	PeriodMinutes = 30
)

// PeriodStart returns the instant settlement period p of date begins.
// Period 1 starts at 00:00; only the calendar date of date is used.
func PeriodStart(date time.Time, period int) (time.Time, error) {
	if period < 1 || period > PeriodsPerDay {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(period-1) * PeriodMinutes * time.Minute), nil
}

// PeriodOf returns the settlement period t falls in.
func PeriodOf(t time.Time) int {
	return (t.Hour()*60+t.Minute())/PeriodMinutes + 1
}
