package neso

import (
	"context"
	"errors"
	"fmt"

	"grid-forecast/api"
)

// DemandDataClient downloads the demand history CSV from the data portal.
type DemandDataClient struct {
	httpClient *api.HTTPClient
}

// NewDemandDataClient creates a client for the CSV at httpClient.BaseURL.
func NewDemandDataClient(httpClient *api.HTTPClient) *DemandDataClient {
	return &DemandDataClient{httpClient: httpClient}
}

func (c *DemandDataClient) FetchDemandData(ctx context.Context) ([]byte, error) {
	if c.httpClient.BaseURL == "" {
		return nil, errors.New("demand data source url is not configured")
	}
	body, err := c.httpClient.Download(ctx, "", map[string]string{"Accept": "text/csv"})
	if err != nil {
		return nil, fmt.Errorf("failed to download demand data: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("demand data download was empty")
	}
	return body, nil
}
