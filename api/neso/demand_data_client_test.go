package neso

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grid-forecast/api"
)

func TestFetchDemandData(t *testing.T) {
	csv := "SETTLEMENT_DATE,SETTLEMENT_PERIOD,ND,FORECAST_ACTUAL_INDICATOR\n2025-01-01,1,21000,A\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demanddataupdate.csv", r.URL.Path)
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	client := NewDemandDataClient(api.NewHTTPClient(srv.URL + "/demanddataupdate.csv"))

	got, err := client.FetchDemandData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, csv, string(got))
}

func TestFetchDemandData_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"empty body", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(test.handler)
			defer srv.Close()

			_, err := NewDemandDataClient(api.NewHTTPClient(srv.URL)).FetchDemandData(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFetchDemandData_NoURL(t *testing.T) {
	_, err := NewDemandDataClient(api.NewHTTPClient("")).FetchDemandData(context.Background())
	assert.Error(t, err)
}

func TestDemandDataClientMock(t *testing.T) {
	var source DemandDataAPI = NewDemandDataClientMock([]byte("x"))

	got, err := source.FetchDemandData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
