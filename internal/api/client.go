package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/saathghoomo/go-saath/internal/config"
	"github.com/saathghoomo/go-saath/internal/stats"
)

// TokenSource yields the current bearer token, or "" when logged out. The
// session store is the only implementation outside tests.
type TokenSource interface {
	Token() string
}

// Client speaks the backend's {success, message, errors[]} JSON envelope.
// It attaches the bearer token to every request when one is present and
// reports a 401 on any authenticated call through the bound unauthorized
// handler, the universal session-invalid signal.
type Client struct {
	baseURL string
	http    *http.Client
	log     *log.Logger
	stats   stats.StatsProvider

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func()
}

func NewClient(cfg *config.Config, logger *log.Logger, sp stats.StatsProvider) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		log:     logger,
		stats:   sp,
	}
}

// BindSession wires the token source and the forced-logout handler. Called
// once at startup, after the session store exists.
func (c *Client) BindSession(ts TokenSource, onUnauthorized func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens = ts
	c.onUnauthorized = onUnauthorized
}

func (c *Client) auth() (token string, handler func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tokens != nil {
		token = c.tokens.Token()
	}
	return token, c.onUnauthorized
}

// envelope is the common wrapper of every response; endpoint payload fields
// sit alongside it and are decoded separately into the caller's out value.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, onUnauthorized := c.auth()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.Incr(stats.ApiErrors)
		return NewTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.Incr(stats.ApiErrors)
		return NewTransportError(err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			c.stats.Incr(stats.ApiErrors)
			return &ApiError{
				StatusCode: resp.StatusCode,
				Message:    "invalid response from server",
				Err:        err,
			}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.stats.Incr(stats.ApiErrors)
		// Only a 401 on a call that actually carried a token invalidates
		// the session; a rejected login is not a session signal.
		if token != "" && onUnauthorized != nil {
			onUnauthorized()
		}
		return &ApiError{
			StatusCode: http.StatusUnauthorized,
			Message:    env.Message,
			Fields:     env.Errors,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		c.stats.Incr(stats.ApiErrors)
		statusCode := resp.StatusCode
		if statusCode >= 200 && statusCode <= 299 {
			// success=false under a 2xx still counts as a failed call
			statusCode = http.StatusBadRequest
		}
		return &ApiError{
			StatusCode: statusCode,
			Message:    env.Message,
			Fields:     env.Errors,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}
