package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

// PoundsPerTonne converts a per-pound quote into a per-metric-tonne one.
const PoundsPerTonne = 2204.62

type Quote struct {
	PricePerTonne float64
	RawUnitPrice  float64
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// FXRate converts the upstream USD quote into GBP.
	FXRate float64
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type ratesResponse struct {
	Success bool `json:"success"`
	Rates   struct {
		XCU *float64 `json:"XCU"`
	} `json:"rates"`
}

// FetchLiveCopperPrice makes exactly one request to the quote service. Every
// failure (transport, status, body, missing or non-positive rate) is reported
// as common.ErrUpstreamUnavailable.
func (c *Client) FetchLiveCopperPrice(ctx context.Context) (Quote, error) {
	if c.cfg.URL == "" {
		return Quote{}, fmt.Errorf("copper price url not configured: %w", common.ErrUpstreamUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build price request: %v: %w", err, common.ErrUpstreamUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-access-token", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("price request: %v: %w", err, common.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Quote{}, fmt.Errorf("price feed returned status %d: %w", resp.StatusCode, common.ErrUpstreamUnavailable)
	}

	var body ratesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decode price response: %v: %w", err, common.ErrUpstreamUnavailable)
	}
	if !body.Success {
		return Quote{}, fmt.Errorf("price feed reported failure: %w", common.ErrUpstreamUnavailable)
	}
	if body.Rates.XCU == nil {
		return Quote{}, fmt.Errorf("price feed response has no XCU rate: %w", common.ErrUpstreamUnavailable)
	}
	raw := *body.Rates.XCU
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return Quote{}, fmt.Errorf("price feed returned unusable XCU rate %v: %w", raw, common.ErrUpstreamUnavailable)
	}

	return Quote{
		PricePerTonne: model.Round2(raw * PoundsPerTonne * c.cfg.FXRate),
		RawUnitPrice:  raw,
	}, nil
}
