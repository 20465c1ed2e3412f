package credstore

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"voyago/database/repository/credential"

	"go.uber.org/zap"
)

// CredentialStore resolves per-provider credentials and base URLs. Environment
// overrides always win over stored values; stored values are served from a
// snapshot refreshed at most once per TTL window.
type CredentialStore interface {
	Get(provider, name string) string
	GetBaseURL(provider string) string
}

// DefaultCredentialStore is the production implementation.
type DefaultCredentialStore struct {
	Repo   credential.CredentialRepository
	TTL    time.Duration
	Logger *zap.Logger

	mu        sync.RWMutex
	values    map[string]string // provider/name -> key_value
	baseURLs  map[string]string // provider -> base_url
	expiresAt time.Time
}

// NewDefaultCredentialStore creates a credential store backed by the given repository.
func NewDefaultCredentialStore(repo credential.CredentialRepository, ttl time.Duration, logger *zap.Logger) *DefaultCredentialStore {
	return &DefaultCredentialStore{
		Repo:   repo,
		TTL:    ttl,
		Logger: logger,
	}
}

// Get returns the credential value for a provider/name pair, or "" when the
// provider is not configured.
func (s *DefaultCredentialStore) Get(provider, name string) string {
	if v := os.Getenv(envKey(provider, name)); v != "" {
		return v
	}
	values, _ := s.snapshot()
	return values[snapKey(provider, name)]
}

// GetBaseURL returns the provider's base URL, or "" when not configured.
func (s *DefaultCredentialStore) GetBaseURL(provider string) string {
	if v := os.Getenv(envKey(provider, "base_url")); v != "" {
		return v
	}
	_, baseURLs := s.snapshot()
	return baseURLs[strings.ToLower(provider)]
}

// snapshot returns the current cached maps, refreshing them when the TTL has
// lapsed. A failed refresh installs empty maps so the system degrades to
// "not configured" instead of erroring on every read.
func (s *DefaultCredentialStore) snapshot() (map[string]string, map[string]string) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		values, baseURLs := s.values, s.baseURLs
		s.mu.RUnlock()
		return values, baseURLs
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have refreshed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.values, s.baseURLs
	}

	values := make(map[string]string)
	baseURLs := make(map[string]string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := s.Repo.ListEnabled(ctx)
	if err != nil {
		s.Logger.Warn("credential refresh failed, serving empty snapshot", zap.Error(err))
	} else {
		for _, row := range rows {
			p := strings.ToLower(row.Provider)
			if row.KeyValue != "" {
				values[snapKey(p, row.Name)] = row.KeyValue
			}
			if row.BaseURL != "" {
				baseURLs[p] = row.BaseURL
			}
		}
	}

	s.values = values
	s.baseURLs = baseURLs
	s.expiresAt = time.Now().Add(s.TTL)
	return s.values, s.baseURLs
}

func snapKey(provider, name string) string {
	return strings.ToLower(provider) + "/" + strings.ToLower(name)
}

// envKey builds the override variable name, e.g. PROVIDERS_AMADEUS_CLIENT_ID.
func envKey(provider, name string) string {
	sanitize := func(s string) string {
		s = strings.ToUpper(s)
		return strings.Map(func(r rune) rune {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}
			return '_'
		}, s)
	}
	return "PROVIDERS_" + sanitize(provider) + "_" + sanitize(name)
}
