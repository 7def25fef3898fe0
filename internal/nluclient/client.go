package nluclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotable/internal/domain"
)

var ErrNotConfigured = errors.New("nlu service is not configured")

// Client talks to a remote hotable-server's /v1/nlu endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) Predict(ctx context.Context, message string) (domain.PredictResponse, error) {
	var out domain.PredictResponse
	err := c.post(ctx, "/v1/nlu/predict", domain.PredictRequest{Message: message}, &out)
	return out, err
}

func (c *Client) Extract(ctx context.Context, message string) (domain.Entities, error) {
	var out domain.ExtractResponse
	if err := c.post(ctx, "/v1/nlu/extract", domain.PredictRequest{Message: message}, &out); err != nil {
		return domain.Entities{}, err
	}
	return out.Entities, nil
}

func (c *Client) Response(ctx context.Context, tag string) (string, error) {
	var out domain.ResponseTemplate
	if err := c.do(ctx, http.MethodGet, "/v1/nlu/response/"+url.PathEscape(tag), nil, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		var apiErr domain.ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("nlu %s status=%d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("nlu %s status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return json.Unmarshal(respBody, out)
}
