package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"voyago/models"

	"go.uber.org/zap"
)

func oauthConfig(tokenURL string) models.ProviderConfig {
	return models.ProviderConfig{
		Provider:     "amadeus",
		AuthMode:     models.AuthModeOAuth2,
		TokenURL:     tokenURL,
		ClientID:     "id",
		ClientSecret: "secret",
	}
}

func TestAcquireCoalescesConcurrentGrants(t *testing.T) {
	var grants int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&grants, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected client_credentials grant, got %q", got)
		}
		// Hold the request open briefly so every caller piles up on it.
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":1799}`))
	}))
	defer srv.Close()

	mgr := NewDefaultManager(srv.Client(), zap.NewNop())
	cfg := oauthConfig(srv.URL)

	const n = 25
	var wg sync.WaitGroup
	tokens := make([]*models.CachedToken, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = mgr.Acquire(context.Background(), cfg)
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&grants); got != 1 {
		t.Fatalf("expected exactly one grant request, got %d", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d got error: %v", i, errs[i])
		}
		if tokens[i].AccessToken != "tok-1" {
			t.Fatalf("caller %d got token %q", i, tokens[i].AccessToken)
		}
	}
}

func TestAcquireServesCachedToken(t *testing.T) {
	var grants int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&grants, 1)
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":1800}`))
	}))
	defer srv.Close()

	mgr := NewDefaultManager(srv.Client(), zap.NewNop())
	cfg := oauthConfig(srv.URL)

	for i := 0; i < 5; i++ {
		if _, err := mgr.Acquire(context.Background(), cfg); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&grants); got != 1 {
		t.Fatalf("expected zero network calls after the first grant, got %d grants", got)
	}
}

func TestAcquireRefreshesNearExpiry(t *testing.T) {
	var grants int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&grants, 1)
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1800}`))
	}))
	defer srv.Close()

	mgr := NewDefaultManager(srv.Client(), zap.NewNop())
	cfg := oauthConfig(srv.URL)

	if _, err := mgr.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// Move the clock to 3 seconds before expiry: inside the 5 second skew,
	// so the next acquire must refresh.
	base := time.Now()
	mgr.now = func() time.Time { return base.Add(1797 * time.Second) }

	if _, err := mgr.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if got := atomic.LoadInt32(&grants); got != 2 {
		t.Fatalf("expected a refresh within the expiry skew, got %d grants", got)
	}
}

func TestAcquireZeroExpiresInFallsBackToSixtySeconds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":0}`))
	}))
	defer srv.Close()

	mgr := NewDefaultManager(srv.Client(), zap.NewNop())
	before := time.Now()

	tok, err := mgr.Acquire(context.Background(), oauthConfig(srv.URL))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	min := before.Add(55 * time.Second)
	max := time.Now().Add(65 * time.Second)
	if tok.ExpiresAt.Before(min) || tok.ExpiresAt.After(max) {
		t.Fatalf("expected expiry around now+60s, got %v", tok.ExpiresAt)
	}
}

func TestAcquireFailureNotCached(t *testing.T) {
	var grants int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&grants, 1)
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok-2","token_type":"Bearer","expires_in":1800}`))
	}))
	defer srv.Close()

	mgr := NewDefaultManager(srv.Client(), zap.NewNop())
	cfg := oauthConfig(srv.URL)

	_, err := mgr.Acquire(context.Background(), cfg)
	var tf *TokenAcquisitionFailed
	if !errors.As(err, &tf) {
		t.Fatalf("expected TokenAcquisitionFailed, got %v", err)
	}
	if tf.Status != http.StatusUnauthorized {
		t.Fatalf("expected upstream status 401, got %d", tf.Status)
	}

	// The failure must not poison the cache; the next call retries.
	tok, err := mgr.Acquire(context.Background(), cfg)
	if err != nil {
		t.Fatalf("acquire after failure: %v", err)
	}
	if tok.AccessToken != "tok-2" {
		t.Fatalf("expected fresh token after failed attempt, got %q", tok.AccessToken)
	}
}
