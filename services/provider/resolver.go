package provider

import (
	"strings"

	"voyago/models"
	"voyago/services/credstore"
)

// Resolution defaults. An admin only has to store what deviates.
const (
	defaultSearchPath   = "/search"
	defaultDetailsPath  = "/details"
	defaultBookPath     = "/book"
	defaultPricePath    = "/price"
	defaultTokenPath    = "/oauth2/token"
	defaultAPIKeyHeader = "x-api-key"
	defaultSearchMethod = "GET"
)

// ConfigResolver assembles a ready-to-use ProviderConfig per call. Precedence
// per field is environment > credential store > default; the first two levels
// live inside the credential store's Get, the defaults live here.
type ConfigResolver interface {
	Resolve(provider string) models.ProviderConfig
}

// DefaultConfigResolver is the production implementation. Pure reads, cheap
// to call on every request thanks to the credential store's cache.
type DefaultConfigResolver struct {
	Store credstore.CredentialStore
}

// Resolve builds the immutable configuration for one provider call.
func (r *DefaultConfigResolver) Resolve(provider string) models.ProviderConfig {
	provider = strings.ToLower(provider)

	cfg := models.ProviderConfig{
		Provider:     provider,
		BaseURL:      r.Store.GetBaseURL(provider),
		SearchPath:   r.value(provider, "search_path", defaultSearchPath),
		DetailsPath:  r.value(provider, "details_path", defaultDetailsPath),
		BookPath:     r.value(provider, "book_path", defaultBookPath),
		PricePath:    r.value(provider, "price_path", defaultPricePath),
		APIKey:       r.Store.Get(provider, "api_key"),
		APIKeyHeader: r.value(provider, "api_key_header", defaultAPIKeyHeader),
		ClientID:     r.Store.Get(provider, "client_id"),
		ClientSecret: r.Store.Get(provider, "client_secret"),
		SearchMethod: strings.ToUpper(r.value(provider, "search_method", defaultSearchMethod)),
	}

	cfg.TokenURL = r.Store.Get(provider, "token_url")
	if cfg.TokenURL == "" && cfg.BaseURL != "" {
		cfg.TokenURL = strings.TrimRight(cfg.BaseURL, "/") + defaultTokenPath
	}

	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		cfg.AuthMode = models.AuthModeOAuth2
	case cfg.APIKey != "":
		cfg.AuthMode = models.AuthModeAPIKey
	default:
		cfg.AuthMode = models.AuthModeNone
	}

	return cfg
}

func (r *DefaultConfigResolver) value(provider, name, fallback string) string {
	if v := r.Store.Get(provider, name); v != "" {
		return v
	}
	return fallback
}
