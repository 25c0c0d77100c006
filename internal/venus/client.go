// Package venus is a thin client for the network source-of-truth API that
// records which interface on each router carries its Starlink link.
package venus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/remdambrosio/bridgetroll/internal/device"
)

// starlinkISP is the ISP label Venus assigns to Starlink-backed links.
const starlinkISP = "Starlink"

// Client talks to the Venus inventory API.
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

// Link is one upstream link on a router.
type Link struct {
	ISP       string `json:"isp"`
	Interface string `json:"interface"`
}

type router struct {
	Name  string `json:"name"`
	Links []Link `json:"links"`
}

// StarlinkInterfaces returns, per canonical router name, the interface
// carrying that router's Starlink link. Routers without a Starlink link are
// absent from the map; absence later excludes the router from comparison.
func (c *Client) StarlinkInterfaces(ctx context.Context) (map[device.ID]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/routers", nil)
	if err != nil {
		return nil, fmt.Errorf("venus: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("venus: pull routers: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("venus: pull routers: bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("venus: read routers: %w", err)
	}

	var routers []router
	if err := json.Unmarshal(body, &routers); err != nil {
		return nil, fmt.Errorf("venus: decode routers: %w", err)
	}

	interfaces := make(map[device.ID]string, len(routers))
	for _, r := range routers {
		for _, link := range r.Links {
			if link.ISP == starlinkISP {
				interfaces[device.Normalize(r.Name)] = link.Interface
				break
			}
		}
	}
	return interfaces, nil
}
