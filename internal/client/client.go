// Package client talks to the journal HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/api"
	"trading-journal-go/internal/config"
)

const maxRetries = 3

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    interface{}
}

func (e *APIError) Error() string {
	if e.Details != nil && e.Details != "" {
		return fmt.Sprintf("%s (%d): %v", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a client for the journal API.
type Client struct {
	client    *resty.Client
	logger    *zap.Logger
	limiter   *rate.Limiter
	baseDelay time.Duration
}

// New creates a Client for the server at cfg.BaseURL.
func New(cfg config.Client, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		client:    client,
		logger:    logger.Named("client"),
		limiter:   rate.NewLimiter(limit, burst),
		baseDelay: time.Second,
	}
}

// idempotent reports whether a failed request may be sent again after the
// server might already have acted on it.
func idempotent(method string) bool {
	return method != http.MethodPost
}

// doRequest executes req with rate limiting. Throttled requests are always
// retried; server and network errors only for idempotent methods.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx).SetError(&api.ErrorResponse{})

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = idempotent(method)
			}
		} else {
			shouldRetry = idempotent(method) && ctx.Err() == nil
		}

		if !shouldRetry {
			if err != nil {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			return nil, apiError(resp)
		}

		if retryAfter == 0 {
			// Exponential backoff: 1x, 2x, 4x the base delay
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.baseDelay
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, apiError(resp))
}

func apiError(resp *resty.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*api.ErrorResponse); ok && body.Error != "" {
		e.Message = body.Error
		e.Details = body.Details
	}
	return e
}
