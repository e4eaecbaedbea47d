// api/http_client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DEFAULT_TIMEOUT = 10 * time.Second

// HTTPClient struct to hold base URL and HTTP client configuration
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient creates a new instance of HTTPClient with default settings
func NewHTTPClient(baseURL string) *HTTPClient {
	return NewHTTPClientWithTimeout(baseURL, DEFAULT_TIMEOUT)
}

// NewHTTPClientWithTimeout is NewHTTPClient with a custom request timeout.
func NewHTTPClientWithTimeout(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Request makes an HTTP request to the API and decodes the JSON response
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, headers map[string]string, body interface{}, response interface{}) error {
	var requestBody []byte
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		requestBody = jsonBody
	}

	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}

	resBody, err := c.do(ctx, method, endpoint, headers, requestBody)
	if err != nil {
		return err
	}
	if response != nil {
		return json.Unmarshal(resBody, response)
	}
	return nil
}

// Download fetches endpoint and returns the raw response body.
func (c *HTTPClient) Download(ctx context.Context, endpoint string, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, headers, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	url := c.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %s", res.Status)
	}
	return resBody, nil
}
