package models

// AuthMode describes how a provider authenticates outbound calls.
type AuthMode string

const (
	AuthModeNone   AuthMode = "none"
	AuthModeAPIKey AuthMode = "api-key"
	AuthModeOAuth2 AuthMode = "oauth2"
)

// ProviderConfig is assembled per call from environment, the credential store
// and defaults. Immutable once resolved.
type ProviderConfig struct {
	Provider     string   `json:"provider"`
	BaseURL      string   `json:"base_url"`
	SearchPath   string   `json:"search_path"`
	DetailsPath  string   `json:"details_path"`
	BookPath     string   `json:"book_path"`
	PricePath    string   `json:"price_path"`
	TokenURL     string   `json:"token_url"`
	AuthMode     AuthMode `json:"auth_mode"`
	APIKey       string   `json:"-"`
	APIKeyHeader string   `json:"api_key_header"`
	ClientID     string   `json:"-"`
	ClientSecret string   `json:"-"`
	SearchMethod string   `json:"search_method"` // HTTP method for search calls
}

// Configured reports whether the provider can be called at all.
func (c ProviderConfig) Configured() bool {
	return c.BaseURL != ""
}

// ProviderCredential is one row of the admin-managed credential table.
// The core only ever reads these.
type ProviderCredential struct {
	Provider string `bson:"provider" json:"provider"`
	Name     string `bson:"name" json:"name"`
	KeyValue string `bson:"key_value" json:"key_value"`
	BaseURL  string `bson:"base_url,omitempty" json:"base_url,omitempty"`
	Status   string `bson:"status" json:"status"` // only "enabled" rows are visible
}
