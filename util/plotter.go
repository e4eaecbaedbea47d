package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"grid-forecast/dao/blob"
	"grid-forecast/models"
)

const ACTUALS_SERIES_NAME = "Actual demand"

// RenderDashboardChart writes an HTML page with the recent actuals and every
// forecast in the dashboard on one time axis.
func RenderDashboardChart(w io.Writer, dashboard models.Dashboard) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Energy Demand",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Energy demand",
			Subtitle: subtitle(dashboard),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: "Timestamp"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "MW"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	actuals := make([]opts.LineData, 0, len(dashboard.Actuals))
	for _, r := range dashboard.Actuals {
		actuals = append(actuals, point(r.Timestamp.UTC().Format(blob.FORECAST_TIMESTAMP_LAYOUT), r.Demand))
	}
	line.AddSeries(ACTUALS_SERIES_NAME, actuals)

	for _, f := range dashboard.Forecasts {
		data := make([]opts.LineData, 0, len(f.Points))
		for _, p := range f.Points {
			data = append(data, point(p.Timestamp.UTC().Format(blob.FORECAST_TIMESTAMP_LAYOUT), p.Demand))
		}
		line.AddSeries(ForecastSeriesName(f.Date), data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard chart: %w", err)
	}
	return nil
}

// ForecastSeriesName labels the artifact generated on date.
func ForecastSeriesName(date string) string {
	return "Forecast " + date
}

func point(ts string, v float64) opts.LineData {
	return opts.LineData{Value: []interface{}{ts, v}}
}

func subtitle(d models.Dashboard) string {
	if d.OverallMAPE != nil {
		return fmt.Sprintf("MAPE %.2f%%", *d.OverallMAPE)
	}
	if d.Message != "" {
		return d.Message
	}
	return ""
}
