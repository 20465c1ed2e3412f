package models

import (
	"encoding/json"
	"time"
)

// CachedToken is an access token held by the token manager for one provider.
// ExpiresAt is the absolute expiry instant computed at acquisition time.
type CachedToken struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Raw         json.RawMessage `json:"-"`
}

// Fresh reports whether the token is still safe to hand out. Tokens within
// skew of expiry are treated as expired so callers never send a token the
// upstream is about to reject.
func (t *CachedToken) Fresh(now time.Time, skew time.Duration) bool {
	return t != nil && t.ExpiresAt.After(now.Add(skew))
}

// TokenGrantResponse is the wire shape of an OAuth2 client-credentials response.
type TokenGrantResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
