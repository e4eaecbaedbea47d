package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	STATUS_SUCCESS = "success"
	STATUS_FAILURE = "failure"
)

// Metrics holds the collectors exported by the forecaster.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	lastRunSeconds prometheus.Gauge
	forecastMAPE   prometheus.Gauge
	forecastPoints prometheus.Gauge
	ingestBytes    prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridforecast_runs_total",
			Help: "Forecast runs by outcome.",
		}, []string{"status"}),
		lastRunSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridforecast_last_run_timestamp_seconds",
			Help: "Unix time of the last successful forecast run.",
		}),
		forecastMAPE: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridforecast_forecast_mape_percent",
			Help: "MAPE of stored forecasts against actuals, as last computed.",
		}),
		forecastPoints: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridforecast_last_forecast_points",
			Help: "Number of points in the last forecast written.",
		}),
		ingestBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridforecast_last_ingest_bytes",
			Help: "Size of the last ingested history file.",
		}),
	}
}

func (m *Metrics) RunSucceeded(at time.Time, points int) {
	m.runsTotal.WithLabelValues(STATUS_SUCCESS).Inc()
	m.lastRunSeconds.Set(float64(at.Unix()))
	m.forecastPoints.Set(float64(points))
}

func (m *Metrics) RunFailed() {
	m.runsTotal.WithLabelValues(STATUS_FAILURE).Inc()
}

func (m *Metrics) ObserveMAPE(mape float64) {
	m.forecastMAPE.Set(mape)
}

func (m *Metrics) ObserveIngest(size int) {
	m.ingestBytes.Set(float64(size))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
