package token

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"voyago/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// expirySkew is how close to expiry a token may get before it is refreshed
// instead of returned.
const expirySkew = 5 * time.Second

// fallbackTTL is used when the grant response omits expires_in or reports zero.
const fallbackTTL = 60 * time.Second

// Manager acquires and caches OAuth2 client-credentials tokens, one cache slot
// per provider. Concurrent refreshes for the same provider are coalesced into
// a single in-flight grant; upstream token endpoints rate-limit or invalidate
// prior tokens on rapid repeated grants.
type Manager interface {
	Acquire(ctx context.Context, cfg models.ProviderConfig) (*models.CachedToken, error)
}

// DefaultManager is the production implementation. One instance serves the
// whole process; it is handed to adapters from the wiring root.
type DefaultManager struct {
	HTTPClient *http.Client
	Logger     *zap.Logger

	mu     sync.RWMutex
	tokens map[string]*models.CachedToken
	group  singleflight.Group
	now    func() time.Time
}

// NewDefaultManager creates a token manager with the given HTTP client.
func NewDefaultManager(httpClient *http.Client, logger *zap.Logger) *DefaultManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &DefaultManager{
		HTTPClient: httpClient,
		Logger:     logger,
		tokens:     make(map[string]*models.CachedToken),
		now:        time.Now,
	}
}

// Acquire returns a token for the provider, refreshing it when absent or
// within 5 seconds of expiry. All concurrent callers for one provider share a
// single grant request and receive the same token or the same error.
func (m *DefaultManager) Acquire(ctx context.Context, cfg models.ProviderConfig) (*models.CachedToken, error) {
	m.mu.RLock()
	cached := m.tokens[cfg.Provider]
	m.mu.RUnlock()
	if cached.Fresh(m.now(), expirySkew) {
		return cached, nil
	}

	result, err, _ := m.group.Do(cfg.Provider, func() (interface{}, error) {
		// Re-check under the flight: a waiter queued behind a finished
		// refresh must not trigger another grant.
		m.mu.RLock()
		current := m.tokens[cfg.Provider]
		m.mu.RUnlock()
		if current.Fresh(m.now(), expirySkew) {
			return current, nil
		}

		tok, err := m.grant(ctx, cfg)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.tokens[cfg.Provider] = tok
		m.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.CachedToken), nil
}

// grant performs one client-credentials grant. Failures are never cached.
func (m *DefaultManager) grant(ctx context.Context, cfg models.ProviderConfig) (*models.CachedToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TokenAcquisitionFailed{Provider: cfg.Provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return nil, &TokenAcquisitionFailed{Provider: cfg.Provider, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.Logger.Warn("token grant rejected",
			zap.String("provider", cfg.Provider),
			zap.Int("status", resp.StatusCode))
		return nil, &TokenAcquisitionFailed{Provider: cfg.Provider, Status: resp.StatusCode, Body: string(body)}
	}

	var grant models.TokenGrantResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, &TokenAcquisitionFailed{Provider: cfg.Provider, Status: resp.StatusCode, Err: err}
	}

	ttl := time.Duration(grant.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = fallbackTTL
	}

	tok := &models.CachedToken{
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresAt:   m.now().Add(ttl),
		Raw:         body,
	}
	m.Logger.Debug("token acquired",
		zap.String("provider", cfg.Provider),
		zap.Time("expiresAt", tok.ExpiresAt))
	return tok, nil
}
