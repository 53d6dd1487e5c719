package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultRequestTimeout = 15 * time.Second

type Config struct {
	// BaseURL is the root of the HTTP JSON API, e.g. "http://localhost:8000/api".
	BaseURL string
	// SocketURL is the push-channel endpoint. Derived from BaseURL when empty.
	SocketURL string
	// GoogleClientID is optional; Google sign-in reports a clear error
	// without it instead of failing silently.
	GoogleClientID string
	RequestTimeout time.Duration
}

func NewConfig(baseURL, socketURL, googleClientID string) (*Config, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("API base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", u.Scheme)
	}

	if socketURL == "" {
		socketURL, err = deriveSocketURL(u)
		if err != nil {
			return nil, fmt.Errorf("derive socket URL: %w", err)
		}
	}

	su, err := url.Parse(socketURL)
	if err != nil {
		return nil, fmt.Errorf("parse socket URL: %w", err)
	}
	if su.Scheme != "ws" && su.Scheme != "wss" {
		return nil, fmt.Errorf("socket URL must be ws or wss, got %q", su.Scheme)
	}

	return &Config{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		SocketURL:      socketURL,
		GoogleClientID: googleClientID,
		RequestTimeout: defaultRequestTimeout,
	}, nil
}

// deriveSocketURL maps the API origin to the websocket endpoint: the scheme
// swaps http->ws and the API path is replaced with /ws.
func deriveSocketURL(base *url.URL) (string, error) {
	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	if base.Host == "" {
		return "", fmt.Errorf("base URL has no host")
	}

	return (&url.URL{Scheme: scheme, Host: base.Host, Path: "/ws"}).String(), nil
}

// FromEnv builds a Config from the environment. The CLI loads .env via
// godotenv before calling this.
func FromEnv() (*Config, error) {
	return NewConfig(
		os.Getenv("SAATH_API_BASE_URL"),
		os.Getenv("SAATH_SOCKET_URL"),
		os.Getenv("SAATH_GOOGLE_CLIENT_ID"),
	)
}
