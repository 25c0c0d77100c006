// Package starlink is a thin client for the satellite-ISP billing API:
// paginated service-line listing and per-line usage payload pulls.
package starlink

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/remdambrosio/bridgetroll/internal/billing"
)

// Client talks to the billing API. All methods are synchronous and return
// already-decoded payloads; no reconciliation logic lives here.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a Client for the given API root. The token is sent as a
// bearer credential on every request.
func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// ServiceLine is one entry in the paginated service-line listing.
type ServiceLine struct {
	ServiceLineNumber string `json:"serviceLineNumber"`
	Nickname          string `json:"nickname"`
	Active            bool   `json:"active"`
}

type serviceLinesPage struct {
	Content struct {
		Results    []ServiceLine `json:"results"`
		IsLastPage bool          `json:"isLastPage"`
	} `json:"content"`
}

// ServiceLines returns every service line, walking the paginated listing to
// the last page.
func (c *Client) ServiceLines(ctx context.Context) ([]ServiceLine, error) {
	var all []ServiceLine
	for page := 0; ; page++ {
		var resp serviceLinesPage
		if err := c.getJSON(ctx, fmt.Sprintf("/service-lines?page=%d", page), &resp); err != nil {
			return nil, fmt.Errorf("starlink: service lines page %d: %w", page, err)
		}
		all = append(all, resp.Content.Results...)
		if resp.Content.IsLastPage {
			return all, nil
		}
	}
}

// DataUsage pulls the usage payload for one service line.
func (c *Client) DataUsage(ctx context.Context, serviceLine string) (billing.UsagePayload, error) {
	var resp struct {
		Content billing.UsagePayload `json:"content"`
	}
	path := "/service-lines/" + url.PathEscape(serviceLine) + "/data-usage"
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return billing.UsagePayload{}, fmt.Errorf("starlink: data usage for %s: %w", serviceLine, err)
	}
	return resp.Content, nil
}

// DeviceUsage is one device's multi-cycle usage history entry, used by the
// starpull export.
type DeviceUsage struct {
	ServiceLineNumber string                 `json:"serviceLineNumber"`
	BillingCycles     []billing.BillingCycle `json:"billingCycles"`
}

type usageHistoryPage struct {
	Content struct {
		Results    []DeviceUsage `json:"results"`
		IsLastPage bool          `json:"isLastPage"`
	} `json:"content"`
}

// UsageHistory fetches one page of the multi-cycle usage listing. The
// second return value reports whether this was the last page.
func (c *Client) UsageHistory(ctx context.Context, cycleCount, page int) ([]DeviceUsage, bool, error) {
	var resp usageHistoryPage
	path := fmt.Sprintf("/data-usage/cycles?count=%d&page=%d", cycleCount, page)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, false, fmt.Errorf("starlink: usage history page %d: %w", page, err)
	}
	return resp.Content.Results, resp.Content.IsLastPage, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
