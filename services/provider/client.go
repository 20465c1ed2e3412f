package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voyago/models"
	"voyago/services/token"

	"go.uber.org/zap"
)

// Client issues authenticated upstream calls for all adapters. It resolves
// configuration, attaches credentials per the resolved auth mode and bounds
// every call with a hard timeout.
type Client struct {
	Resolver ConfigResolver
	Tokens   token.Manager
	HTTP     *http.Client
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates an upstream client with the given call timeout.
func NewClient(resolver ConfigResolver, tokens token.Manager, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		Resolver: resolver,
		Tokens:   tokens,
		HTTP:     &http.Client{Timeout: timeout},
		Timeout:  timeout,
		Logger:   logger,
	}
}

// Call resolves the provider, performs one upstream request and returns the
// raw response body and status. It returns *ProviderNotConfigured before any
// network when the provider has no base URL.
func (c *Client) Call(ctx context.Context, provider, method, path string, query url.Values, payload interface{}) ([]byte, int, error) {
	cfg := c.Resolver.Resolve(provider)
	if !cfg.Configured() {
		return nil, 0, &ProviderNotConfigured{Provider: provider}
	}
	return c.CallWithConfig(ctx, cfg, method, path, query, payload)
}

// CallWithConfig issues the request against an already-resolved config.
func (c *Client) CallWithConfig(ctx context.Context, cfg models.ProviderConfig, method, path string, query url.Values, payload interface{}) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request for %s: %w", cfg.Provider, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request for %s: %w", cfg.Provider, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.attachAuth(ctx, req, cfg); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	c.Logger.Debug("upstream call",
		zap.String("provider", cfg.Provider),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return raw, resp.StatusCode, nil
}

func (c *Client) attachAuth(ctx context.Context, req *http.Request, cfg models.ProviderConfig) error {
	switch cfg.AuthMode {
	case models.AuthModeOAuth2:
		tok, err := c.Tokens.Acquire(ctx, cfg)
		if err != nil {
			return err
		}
		tokenType := tok.TokenType
		if tokenType == "" {
			tokenType = "Bearer"
		}
		req.Header.Set("Authorization", tokenType+" "+tok.AccessToken)
	case models.AuthModeAPIKey:
		req.Header.Set(cfg.APIKeyHeader, cfg.APIKey)
	}
	return nil
}
