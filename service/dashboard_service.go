package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"grid-forecast/config"
	"grid-forecast/dao/blob"
	"grid-forecast/forecast"
	"grid-forecast/metrics"
	"grid-forecast/models"
)

const NOT_ENOUGH_DATA_MESSAGE = "not enough data to compute accuracy"
const UNDEFINED_MAPE_MESSAGE = "accuracy undefined: actual demand of zero in the overlap"

// DashboardService assembles recent actuals, stored forecasts and their
// accuracy for display.
type DashboardService struct {
	dao     *blob.ForecastDAO
	metrics *metrics.Metrics
	cfg     config.DashboardConfig
	logger  *logrus.Logger
	now     func() time.Time
}

func NewDashboardService(
	dao *blob.ForecastDAO,
	m *metrics.Metrics,
	cfg config.DashboardConfig,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{dao: dao, metrics: m, cfg: cfg, logger: logger, now: time.Now}
}

// Build returns the actuals of the last HistoryDays days, the latest
// ForecastCount forecasts and the MAPE of each forecast against all known
// actuals. When forecasts overlap in time the newer artifact counts towards
// the overall MAPE. A MAPE made infinite or NaN by zero actuals is left nil
// and explained in Message.
func (ds *DashboardService) Build(ctx context.Context) (*models.Dashboard, error) {
	history, _, err := ds.dao.ReadHistory(ctx)
	if err != nil {
		return nil, err
	}
	forecasts, err := ds.dao.LatestForecasts(ctx, ds.cfg.ForecastCount)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		GeneratedAt: ds.now().UTC(),
		Actuals:     recentReadings(history, ds.cfg.HistoryDays),
		Forecasts:   forecasts,
		Accuracy:    make([]models.ForecastAccuracy, 0, len(forecasts)),
	}

	actual := forecast.ReadingsToMap(history)
	pooled := make(map[time.Time]float64)
	for _, f := range forecasts {
		predicted := forecast.SeriesToMap(f.Points)
		acc := models.ForecastAccuracy{Date: f.Date, OverlapPoints: forecast.OverlapCount(actual, predicted)}
		if mape, err := forecast.MAPE(actual, predicted); err == nil && isFinite(mape) {
			acc.MAPE = &mape
		}
		dashboard.Accuracy = append(dashboard.Accuracy, acc)
		for ts, v := range predicted {
			pooled[ts] = v
		}
	}

	overall, err := forecast.MAPE(actual, pooled)
	switch {
	case errors.Is(err, forecast.ErrInsufficientOverlap):
		dashboard.Message = NOT_ENOUGH_DATA_MESSAGE
	case err != nil:
		return nil, err
	case !isFinite(overall):
		dashboard.Message = UNDEFINED_MAPE_MESSAGE
	default:
		dashboard.OverallMAPE = &overall
		ds.metrics.ObserveMAPE(overall)
	}

	ds.logger.WithFields(logrus.Fields{
		"actuals":   len(dashboard.Actuals),
		"forecasts": len(forecasts),
	}).Debug("[DashboardService] Built dashboard")
	return dashboard, nil
}

// isFinite reports whether a MAPE can be shown; zero actuals make it Inf or NaN.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// recentReadings keeps the readings within days of the last one.
func recentReadings(history []models.DemandReading, days int) []models.DemandReading {
	if len(history) == 0 || days <= 0 {
		return []models.DemandReading{}
	}
	cutoff := history[len(history)-1].Timestamp.Add(-time.Duration(days) * 24 * time.Hour)
	for i, r := range history {
		if r.Timestamp.After(cutoff) {
			return history[i:]
		}
	}
	return []models.DemandReading{}
}
