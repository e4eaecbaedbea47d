package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grid-forecast/config"
	"grid-forecast/dao/blob"
	"grid-forecast/db"
	"grid-forecast/logging"
	"grid-forecast/regression"
)

var testKeys = config.KeysConfig{
	History:        config.DEFAULT_HISTORY_KEY,
	Model:          config.DEFAULT_MODEL_KEY,
	ForecastPrefix: config.DEFAULT_FORECAST_PREFIX,
}

// historyCSV renders days of full settlement data starting at first, every
// period carrying demand.
func historyCSV(first time.Time, days int, demand float64) string {
	var b strings.Builder
	b.WriteString("SETTLEMENT_DATE,SETTLEMENT_PERIOD,ND,FORECAST_ACTUAL_INDICATOR\n")
	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d).Format("2006-01-02")
		for p := 1; p <= 48; p++ {
			fmt.Fprintf(&b, "%s,%d,%g,A\n", date, p, demand)
		}
	}
	return b.String()
}

func newTestStore(t *testing.T) (*blob.ForecastDAO, *db.MockBlobClient) {
	t.Helper()
	client := db.NewMockBlobClient()
	return blob.NewForecastDAO(client, testKeys, logging.Discard()), client
}

// putPersistenceModel stores a model that predicts lag_1.
func putPersistenceModel(t *testing.T, client db.BlobClient) {
	t.Helper()
	model, err := regression.NewLinearModel([]float64{0, 0, 0, 1, 0}, 0)
	require.NoError(t, err)
	raw, err := model.Marshal()
	require.NoError(t, err)
	require.NoError(t, client.Put(context.Background(), config.DEFAULT_MODEL_KEY, raw))
}
