package provider

import (
	"testing"

	"voyago/models"
)

// fakeStore is an in-memory CredentialStore for tests.
type fakeStore struct {
	values   map[string]string // "provider/name"
	baseURLs map[string]string
}

func (f *fakeStore) Get(provider, name string) string {
	return f.values[provider+"/"+name]
}

func (f *fakeStore) GetBaseURL(provider string) string {
	return f.baseURLs[provider]
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	resolver := &DefaultConfigResolver{Store: &fakeStore{
		values:   map[string]string{},
		baseURLs: map[string]string{"tours": "https://api.tours.test"},
	}}

	cfg := resolver.Resolve("tours")
	if cfg.BaseURL != "https://api.tours.test" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.SearchPath != "/search" || cfg.DetailsPath != "/details" || cfg.BookPath != "/book" {
		t.Fatalf("expected default paths, got %+v", cfg)
	}
	if cfg.APIKeyHeader != "x-api-key" {
		t.Fatalf("expected default api key header, got %q", cfg.APIKeyHeader)
	}
	if cfg.SearchMethod != "GET" {
		t.Fatalf("expected default GET, got %q", cfg.SearchMethod)
	}
	if cfg.AuthMode != models.AuthModeNone {
		t.Fatalf("expected auth mode none, got %q", cfg.AuthMode)
	}
	if cfg.TokenURL != "https://api.tours.test/oauth2/token" {
		t.Fatalf("expected derived token url, got %q", cfg.TokenURL)
	}
}

func TestResolveAuthModeInference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values map[string]string
		want   models.AuthMode
	}{
		{
			name: "oauth2_when_client_pair_present",
			values: map[string]string{
				"amadeus/client_id":     "id",
				"amadeus/client_secret": "sec",
				"amadeus/api_key":       "also-has-key",
			},
			want: models.AuthModeOAuth2,
		},
		{
			name:   "api_key_when_only_key",
			values: map[string]string{"amadeus/api_key": "key"},
			want:   models.AuthModeAPIKey,
		},
		{
			name:   "none_when_nothing",
			values: map[string]string{},
			want:   models.AuthModeNone,
		},
		{
			name:   "none_when_client_id_without_secret",
			values: map[string]string{"amadeus/client_id": "id"},
			want:   models.AuthModeNone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := &DefaultConfigResolver{Store: &fakeStore{
				values:   tt.values,
				baseURLs: map[string]string{"amadeus": "https://api.amadeus.test"},
			}}
			if got := resolver.Resolve("amadeus").AuthMode; got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveStoredValuesWin(t *testing.T) {
	t.Parallel()

	resolver := &DefaultConfigResolver{Store: &fakeStore{
		values: map[string]string{
			"hotelbeds/search_path":    "/hotels/v2/availability",
			"hotelbeds/api_key_header": "Api-Key",
			"hotelbeds/search_method":  "post",
		},
		baseURLs: map[string]string{"hotelbeds": "https://api.hotelbeds.test"},
	}}

	cfg := resolver.Resolve("hotelbeds")
	if cfg.SearchPath != "/hotels/v2/availability" {
		t.Fatalf("expected stored path, got %q", cfg.SearchPath)
	}
	if cfg.APIKeyHeader != "Api-Key" {
		t.Fatalf("expected stored header, got %q", cfg.APIKeyHeader)
	}
	if cfg.SearchMethod != "POST" {
		t.Fatalf("expected uppercased stored method, got %q", cfg.SearchMethod)
	}
}
