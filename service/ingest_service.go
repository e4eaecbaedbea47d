package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"grid-forecast/api/neso"
	"grid-forecast/dao/blob"
	"grid-forecast/metrics"
	"grid-forecast/models"
)

// IngestService refreshes the stored demand history from the data portal.
type IngestService struct {
	dao     *blob.ForecastDAO
	source  neso.DemandDataAPI
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

func NewIngestService(
	dao *blob.ForecastDAO,
	source neso.DemandDataAPI,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *IngestService {
	return &IngestService{dao: dao, source: source, metrics: m, logger: logger}
}

// Ingest downloads the history file and stores it.
func (is *IngestService) Ingest(ctx context.Context) (*models.IngestSummary, error) {
	raw, err := is.source.FetchDemandData(ctx)
	if err != nil {
		return nil, fmt.Errorf("[IngestService] %w", err)
	}
	return is.IngestRaw(ctx, raw)
}

// IngestRaw stores raw as the history file only if it parses and holds at
// least one actual reading.
func (is *IngestService) IngestRaw(ctx context.Context, raw []byte) (*models.IngestSummary, error) {
	rows, err := blob.ParseHistoryRows(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("[IngestService] downloaded history is invalid: %w", err)
	}
	readings, skipped := blob.ReadingsFromRows(rows)
	if len(readings) == 0 {
		return nil, errors.New("[IngestService] downloaded history has no actual readings")
	}

	if err := is.dao.PutHistory(ctx, raw); err != nil {
		return nil, err
	}
	is.metrics.ObserveIngest(len(raw))

	summary := &models.IngestSummary{
		Bytes:    len(raw),
		Rows:     len(rows),
		Readings: len(readings),
		Skipped:  len(skipped),
	}
	is.logger.WithFields(logrus.Fields{
		"bytes":    summary.Bytes,
		"rows":     summary.Rows,
		"readings": summary.Readings,
		"skipped":  summary.Skipped,
	}).Info("[IngestService] Stored demand history")
	return summary, nil
}
