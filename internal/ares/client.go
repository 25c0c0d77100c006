// Package ares is a thin client for the flow-accounting system's raw
// counter query interface.
package ares

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the Ares flow-accounting API. Queries return the raw
// multi-line counter dump; parsing belongs to the flow package.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a Client for the given API root.
func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 120 * time.Second, // counter dumps are large and slow
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// TrafficBlob returns the counter dump covering every interface between the
// given bounds. Bounds are local wall-clock "YYYY-MM-DD HH:MM:SS" strings in
// Ares's native timezone with an inclusive end, exactly as align.FlowBounds
// produces them.
func (c *Client) TrafficBlob(ctx context.Context, start, end string) (string, error) {
	if start == "" || end == "" {
		return "", fmt.Errorf("ares: empty query bounds")
	}

	query := url.Values{}
	query.Set("start", start)
	query.Set("end", end)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/web_adb?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("ares: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ares: traffic query: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ares: traffic query: bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ares: read traffic: %w", err)
	}
	return string(body), nil
}
