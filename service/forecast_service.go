package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"grid-forecast/dao/blob"
	"grid-forecast/forecast"
	"grid-forecast/metrics"
	"grid-forecast/models"
)

// ForecastService runs the day-ahead forecast and persists its output.
type ForecastService struct {
	dao     *blob.ForecastDAO
	metrics *metrics.Metrics
	opts    forecast.Options
	logger  *logrus.Logger
	now     func() time.Time
}

// NewForecastService constructs a new ForecastService with its dependencies.
func NewForecastService(
	dao *blob.ForecastDAO,
	m *metrics.Metrics,
	opts forecast.Options,
	logger *logrus.Logger,
) *ForecastService {
	return &ForecastService{
		dao:     dao,
		metrics: m,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// RunForecast loads the history and model, forecasts the next horizon and
// stores it as the artifact for date. A zero date means today (UTC). If any
// step fails nothing is written.
func (fs *ForecastService) RunForecast(ctx context.Context, date time.Time) (*models.RunSummary, error) {
	runID := uuid.New().String()
	if date.IsZero() {
		date = fs.now().UTC()
	}
	log := fs.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"date":   date.Format(blob.FORECAST_DATE_LAYOUT),
	})
	log.Info("[ForecastService] Starting forecast run")

	summary, err := fs.run(ctx, runID, date, log)
	if err != nil {
		fs.metrics.RunFailed()
		log.WithError(err).Error("[ForecastService] Forecast run failed")
		return nil, err
	}

	fs.metrics.RunSucceeded(fs.now(), summary.Points)
	log.WithFields(logrus.Fields{
		"key":    summary.Key,
		"points": summary.Points,
		"first":  summary.FirstPoint,
		"last":   summary.LastPoint,
	}).Info("[ForecastService] Forecast run completed")
	return summary, nil
}

func (fs *ForecastService) run(ctx context.Context, runID string, date time.Time, log *logrus.Entry) (*models.RunSummary, error) {
	history, skipped, err := fs.dao.ReadHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		log.WithField("skipped", len(skipped)).Warn("[ForecastService] Ignored rows with out-of-range settlement periods")
	}

	model, err := fs.dao.LoadModel(ctx)
	if err != nil {
		return nil, err
	}

	series, err := forecast.Forecast(ctx, history, model, fs.opts)
	if err != nil {
		return nil, fmt.Errorf("[ForecastService] forecast failed: %w", err)
	}

	key, err := fs.dao.SaveForecast(ctx, date, series)
	if err != nil {
		return nil, err
	}

	return &models.RunSummary{
		RunID:      runID,
		Date:       date.Format(blob.FORECAST_DATE_LAYOUT),
		Key:        key,
		Points:     len(series),
		FirstPoint: series.First().Timestamp,
		LastPoint:  series.Last().Timestamp,
		Readings:   len(history),
	}, nil
}

// StartPeriodicJob launches the background loop at the given interval. The
// loop stops when ctx is cancelled.
func (fs *ForecastService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go fs.startPeriodicJob(ctx, interval)
}

func (fs *ForecastService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fs.logger.Info("[ForecastService] Running periodic forecast job.")
			if _, err := fs.RunForecast(ctx, time.Time{}); err != nil {
				fs.logger.Errorf("[ForecastService] RunForecast returned error: %v", err)
			}
		}
	}
}
