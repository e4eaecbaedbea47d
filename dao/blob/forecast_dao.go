package blob

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"grid-forecast/config"
	"grid-forecast/db"
	"grid-forecast/models"
	"grid-forecast/regression"
)

const FORECAST_KEY_FORMAT = "%sforecast%s.csv"
const FORECAST_DATE_LAYOUT = "2006-01-02"

// ForecastDAO reads history and model artifacts and persists forecasts in a
// blob container.
type ForecastDAO struct {
	client db.BlobClient
	keys   config.KeysConfig
	logger *logrus.Logger
}

// NewForecastDAO initializes a ForecastDAO over the blob client.
func NewForecastDAO(client db.BlobClient, keys config.KeysConfig, logger *logrus.Logger) *ForecastDAO {
	return &ForecastDAO{client: client, keys: keys, logger: logger}
}

// ForecastKey returns the blob key of the forecast generated on date.
func (dao *ForecastDAO) ForecastKey(date string) string {
	return fmt.Sprintf(FORECAST_KEY_FORMAT, dao.keys.ForecastPrefix, date)
}

// ReadHistory downloads the history CSV and returns the actual readings in
// timestamp order, along with the rows skipped for out-of-range periods.
func (dao *ForecastDAO) ReadHistory(ctx context.Context) ([]models.DemandReading, []models.HistoryRow, error) {
	raw, err := dao.client.Get(ctx, dao.keys.History)
	if err != nil {
		return nil, nil, fmt.Errorf("[ForecastDAO] failed to read history: %w", err)
	}
	rows, err := ParseHistoryRows(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("[ForecastDAO] failed to parse history %s: %w", dao.keys.History, err)
	}
	readings, skipped := ReadingsFromRows(rows)
	dao.logger.WithFields(logrus.Fields{
		"key":      dao.keys.History,
		"rows":     len(rows),
		"readings": len(readings),
		"skipped":  len(skipped),
	}).Info("[ForecastDAO] Loaded demand history")
	return readings, skipped, nil
}

// PutHistory replaces the raw history CSV.
func (dao *ForecastDAO) PutHistory(ctx context.Context, raw []byte) error {
	if err := dao.client.Put(ctx, dao.keys.History, raw); err != nil {
		return fmt.Errorf("[ForecastDAO] failed to store history: %w", err)
	}
	return nil
}

// LoadModel downloads and decodes the regression model artifact.
func (dao *ForecastDAO) LoadModel(ctx context.Context) (*regression.LinearModel, error) {
	raw, err := dao.client.Get(ctx, dao.keys.Model)
	if err != nil {
		return nil, fmt.Errorf("[ForecastDAO] failed to read model: %w", err)
	}
	model, err := regression.ParseLinearModel(raw)
	if err != nil {
		return nil, fmt.Errorf("[ForecastDAO] failed to load model %s: %w", dao.keys.Model, err)
	}
	return model, nil
}

// PutModel stores model as the artifact used by later runs.
func (dao *ForecastDAO) PutModel(ctx context.Context, model *regression.LinearModel) error {
	raw, err := model.Marshal()
	if err != nil {
		return fmt.Errorf("[ForecastDAO] failed to encode model: %w", err)
	}
	if err := dao.client.Put(ctx, dao.keys.Model, raw); err != nil {
		return fmt.Errorf("[ForecastDAO] failed to store model: %w", err)
	}
	return nil
}

// SaveForecast writes series as the artifact for date, replacing any
// artifact already written that day.
func (dao *ForecastDAO) SaveForecast(ctx context.Context, date time.Time, series models.ForecastSeries) (string, error) {
	var buf bytes.Buffer
	if err := WriteForecastCSV(&buf, series); err != nil {
		return "", fmt.Errorf("[ForecastDAO] failed to encode forecast: %w", err)
	}
	key := dao.ForecastKey(date.Format(FORECAST_DATE_LAYOUT))
	if err := dao.client.Put(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("[ForecastDAO] failed to save forecast: %w", err)
	}
	return key, nil
}

// GetForecast reads the artifact generated on date (YYYY-MM-DD).
func (dao *ForecastDAO) GetForecast(ctx context.Context, date string) (models.ForecastSeries, error) {
	raw, err := dao.client.Get(ctx, dao.ForecastKey(date))
	if err != nil {
		return nil, fmt.Errorf("[ForecastDAO] failed to get forecast for %s: %w", date, err)
	}
	series, err := ParseForecastCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("[ForecastDAO] failed to parse forecast for %s: %w", date, err)
	}
	return series, nil
}

// ListForecastDates returns the dates of all stored artifacts, oldest first.
func (dao *ForecastDAO) ListForecastDates(ctx context.Context) ([]string, error) {
	keys, err := dao.client.List(ctx, dao.keys.ForecastPrefix)
	if err != nil {
		return nil, fmt.Errorf("[ForecastDAO] failed to list forecasts: %w", err)
	}

	prefix := dao.keys.ForecastPrefix + "forecast"
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, ".csv") {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(k, prefix), ".csv")
		if _, err := time.Parse(FORECAST_DATE_LAYOUT, date); err != nil {
			dao.logger.WithField("key", k).Warn("[ForecastDAO] Ignoring forecast blob with unexpected name")
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

// LatestForecasts returns up to n most recent artifacts, oldest first.
func (dao *ForecastDAO) LatestForecasts(ctx context.Context, n int) ([]models.DatedForecast, error) {
	dates, err := dao.ListForecastDates(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	out := make([]models.DatedForecast, 0, len(dates))
	for _, date := range dates {
		series, err := dao.GetForecast(ctx, date)
		if err != nil {
			return nil, err
		}
		out = append(out, models.DatedForecast{Date: date, Points: series})
	}
	return out, nil
}
