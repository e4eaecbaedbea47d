package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grid-forecast/config"
	"grid-forecast/logging"
	"grid-forecast/metrics"
	"grid-forecast/models"
)

func constantSeries(start time.Time, n int, demand float64) models.ForecastSeries {
	series := make(models.ForecastSeries, n)
	for i := range series {
		series[i] = models.ForecastPoint{Timestamp: start.Add(time.Duration(i) * 30 * time.Minute), Demand: demand}
	}
	return series
}

func TestDashboardService_Build(t *testing.T) {
	dao, _ := newTestStore(t)
	ctx := context.Background()
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 := jan1.AddDate(0, 0, 1)
	jan3 := jan1.AddDate(0, 0, 2)
	require.NoError(t, dao.PutHistory(ctx, []byte(historyCSV(jan1, 2, 1000))))

	_, err := dao.SaveForecast(ctx, jan1, constantSeries(jan2, 48, 1100))
	require.NoError(t, err)
	_, err = dao.SaveForecast(ctx, jan2, constantSeries(jan3, 48, 1200))
	require.NoError(t, err)

	ds := NewDashboardService(dao, metrics.New(), config.DashboardConfig{ForecastCount: 7, HistoryDays: 1}, logging.Discard())

	dashboard, err := ds.Build(ctx)

	require.NoError(t, err)
	require.Len(t, dashboard.Actuals, 48)
	assert.Equal(t, jan2, dashboard.Actuals[0].Timestamp)
	require.Len(t, dashboard.Forecasts, 2)
	require.Len(t, dashboard.Accuracy, 2)

	assert.Equal(t, "2025-01-01", dashboard.Accuracy[0].Date)
	assert.Equal(t, 48, dashboard.Accuracy[0].OverlapPoints)
	require.NotNil(t, dashboard.Accuracy[0].MAPE)
	assert.InDelta(t, 10.0, *dashboard.Accuracy[0].MAPE, 1e-9)

	assert.Equal(t, 0, dashboard.Accuracy[1].OverlapPoints)
	assert.Nil(t, dashboard.Accuracy[1].MAPE)

	require.NotNil(t, dashboard.OverallMAPE)
	assert.InDelta(t, 10.0, *dashboard.OverallMAPE, 1e-9)
	assert.Empty(t, dashboard.Message)
}

func TestDashboardService_Build_NotEnoughData(t *testing.T) {
	dao, _ := newTestStore(t)
	ctx := context.Background()
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dao.PutHistory(ctx, []byte(historyCSV(jan1, 1, 1000))))
	_, err := dao.SaveForecast(ctx, jan1, constantSeries(jan1.AddDate(0, 0, 1), 48, 1000))
	require.NoError(t, err)

	ds := NewDashboardService(dao, metrics.New(), config.DashboardConfig{ForecastCount: 7, HistoryDays: 7}, logging.Discard())

	dashboard, err := ds.Build(ctx)

	require.NoError(t, err)
	assert.Len(t, dashboard.Actuals, 48)
	assert.Nil(t, dashboard.OverallMAPE)
	assert.Equal(t, NOT_ENOUGH_DATA_MESSAGE, dashboard.Message)
}

func TestDashboardService_Build_LimitsForecastCount(t *testing.T) {
	dao, _ := newTestStore(t)
	ctx := context.Background()
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dao.PutHistory(ctx, []byte(historyCSV(jan1, 1, 1000))))
	for d := 0; d < 4; d++ {
		day := jan1.AddDate(0, 0, d)
		_, err := dao.SaveForecast(ctx, day, constantSeries(day.AddDate(0, 0, 1), 2, 1000))
		require.NoError(t, err)
	}

	ds := NewDashboardService(dao, metrics.New(), config.DashboardConfig{ForecastCount: 2, HistoryDays: 7}, logging.Discard())

	dashboard, err := ds.Build(ctx)

	require.NoError(t, err)
	require.Len(t, dashboard.Forecasts, 2)
	assert.Equal(t, "2025-01-03", dashboard.Forecasts[0].Date)
	assert.Equal(t, "2025-01-04", dashboard.Forecasts[1].Date)
}

func TestRecentReadings(t *testing.T) {
	assert.Empty(t, recentReadings(nil, 7))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []models.DemandReading{
		{Timestamp: start, Demand: 1},
		{Timestamp: start.Add(36 * time.Hour), Demand: 2},
		{Timestamp: start.Add(48 * time.Hour), Demand: 3},
	}
	got := recentReadings(history, 1)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Demand)
}

func TestDashboardService_Build_ZeroActualLeavesMAPEUnset(t *testing.T) {
	dao, _ := newTestStore(t)
	ctx := context.Background()
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dao.PutHistory(ctx, []byte(historyCSV(jan1, 2, 0))))
	_, err := dao.SaveForecast(ctx, jan1, constantSeries(jan1.AddDate(0, 0, 1), 48, 1050))
	require.NoError(t, err)

	ds := NewDashboardService(dao, metrics.New(), config.DashboardConfig{ForecastCount: 7, HistoryDays: 7}, logging.Discard())

	dashboard, err := ds.Build(ctx)

	require.NoError(t, err)
	require.Len(t, dashboard.Accuracy, 1)
	assert.Equal(t, 48, dashboard.Accuracy[0].OverlapPoints)
	assert.Nil(t, dashboard.Accuracy[0].MAPE)
	assert.Nil(t, dashboard.OverallMAPE)
	assert.Equal(t, UNDEFINED_MAPE_MESSAGE, dashboard.Message)
}
