// Package lookup proxies identity queries (DNI for persons, RUC for
// companies) to the external registry API, keeping the bearer token on the
// server side.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("lookup: api token not configured")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client. With an empty token every query fails with
// ErrNotConfigured.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Result carries the upstream response body and status through to the caller.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

// DNI looks up a national identity number (8 digits).
func (c *Client) DNI(ctx context.Context, dni string) (*Result, error) {
	return c.get(ctx, fmt.Sprintf("%s/reniec/dni?numero=%s", c.baseURL, dni))
}

// RUC looks up a company tax number (11 digits).
func (c *Client) RUC(ctx context.Context, ruc string) (*Result, error) {
	return c.get(ctx, fmt.Sprintf("%s/sunat/ruc?numero=%s", c.baseURL, ruc))
}

func (c *Client) get(ctx context.Context, url string) (*Result, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}
