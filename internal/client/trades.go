package client

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trading-journal-go/internal/api"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/metrics"
	"trading-journal-go/internal/models"
)

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/health", c.client.R()); err != nil {
		return fmt.Errorf("failed to check health: %w", err)
	}
	return nil
}

// Status fetches information about the running server.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	req := c.client.R().SetResult(&api.StatusResponse{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/status", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return resp.Result().(*api.StatusResponse), nil
}

// ListTrades fetches the trades matching f.
func (c *Client) ListTrades(ctx context.Context, f journal.Filter) ([]models.Trade, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Outcome != "" {
		params.Set("outcome", string(f.Outcome))
	}
	if f.Type != "" {
		params.Set("type", string(f.Type))
	}
	if f.SortBy != "" {
		params.Set("sort", string(f.SortBy))
	}
	if f.Order != "" {
		params.Set("order", string(f.Order))
	}

	var trades []models.Trade
	req := c.client.R().SetQueryParamsFromValues(params).SetResult(&trades)
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/trades", req); err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// RecentTrades fetches the newest trades. A limit of 0 uses the server default.
func (c *Client) RecentTrades(ctx context.Context, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	req := c.client.R().SetResult(&trades)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/trades/recent", req); err != nil {
		return nil, fmt.Errorf("failed to get recent trades: %w", err)
	}
	return trades, nil
}

// CreateTrade records a new trade.
func (c *Client) CreateTrade(ctx context.Context, in models.TradeInput) (*models.Trade, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return resp.Result().(*models.Trade), nil
}

// GetTrade fetches one trade.
func (c *Client) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	req := c.client.R().SetPathParam("id", id).SetResult(&models.Trade{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades/{id}", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade %s: %w", id, err)
	}
	return resp.Result().(*models.Trade), nil
}

// UpdateTrade applies a partial update to a trade.
func (c *Client) UpdateTrade(ctx context.Context, id string, update models.TradeUpdate) (*models.Trade, error) {
	req := c.client.R().
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPatch, "/api/trades/{id}", req)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade %s: %w", id, err)
	}
	return resp.Result().(*models.Trade), nil
}

// DeleteTrade removes a trade. Deleting an unknown id succeeds.
func (c *Client) DeleteTrade(ctx context.Context, id string) error {
	req := c.client.R().SetPathParam("id", id)
	if _, err := c.doRequest(ctx, http.MethodDelete, "/api/trades/{id}", req); err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", id, err)
	}
	return nil
}

// ClearTrades removes every trade.
func (c *Client) ClearTrades(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/api/trades", c.client.R()); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}
	return nil
}

// Export downloads the journal export.
func (c *Client) Export(ctx context.Context) (journal.Export, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades/export", c.client.R())
	if err != nil {
		return journal.Export{}, fmt.Errorf("failed to export trades: %w", err)
	}

	filename := journal.ExportFilename(time.Now())
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return journal.Export{Filename: filename, Data: resp.Body()}, nil
}

// Import replaces the journal with the trades in data.
func (c *Client) Import(ctx context.Context, data []byte) (int, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(data).
		SetResult(&api.ImportResponse{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades/import", req)
	if err != nil {
		return 0, fmt.Errorf("failed to import trades: %w", err)
	}
	return resp.Result().(*api.ImportResponse).Imported, nil
}

// Reload makes the server re-read the journal from storage.
func (c *Client) Reload(ctx context.Context) (*api.ReloadResponse, error) {
	req := c.client.R().SetResult(&api.ReloadResponse{})
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades/reload", req)
	if err != nil {
		return nil, fmt.Errorf("failed to reload trades: %w", err)
	}
	return resp.Result().(*api.ReloadResponse), nil
}

// Stats fetches the summary and per-type win rates.
func (c *Client) Stats(ctx context.Context) (*api.StatsResponse, error) {
	req := c.client.R().SetResult(&api.StatsResponse{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/stats", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return resp.Result().(*api.StatsResponse), nil
}

// Daily fetches the per-day profit and loss.
func (c *Client) Daily(ctx context.Context) ([]metrics.DailyPL, error) {
	var days []metrics.DailyPL
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/stats/daily", c.client.R().SetResult(&days)); err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return days, nil
}

// Today fetches today's profit and loss.
func (c *Client) Today(ctx context.Context) (*metrics.TodayPL, error) {
	req := c.client.R().SetResult(&metrics.TodayPL{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/stats/today", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's stats: %w", err)
	}
	return resp.Result().(*metrics.TodayPL), nil
}

// Calendar fetches one month (YYYY-MM) of daily results. An empty month means
// the server's current month.
func (c *Client) Calendar(ctx context.Context, month string) (*api.CalendarResponse, error) {
	req := c.client.R().SetResult(&api.CalendarResponse{})
	if month != "" {
		req.SetQueryParam("month", month)
	}
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/calendar", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return resp.Result().(*api.CalendarResponse), nil
}
