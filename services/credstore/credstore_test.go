package credstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"voyago/models"

	"go.uber.org/zap"
)

type mockCredentialRepo struct {
	listEnabledFunc func(ctx context.Context) ([]models.ProviderCredential, error)
	calls           int32
}

func (m *mockCredentialRepo) ListEnabled(ctx context.Context) ([]models.ProviderCredential, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.listEnabledFunc != nil {
		return m.listEnabledFunc(ctx)
	}
	return nil, nil
}

func testRows() []models.ProviderCredential {
	return []models.ProviderCredential{
		{Provider: "amadeus", Name: "client_id", KeyValue: "id-123", Status: "enabled"},
		{Provider: "amadeus", Name: "client_secret", KeyValue: "sec-456", Status: "enabled"},
		{Provider: "amadeus", Name: "base_url", BaseURL: "https://api.amadeus.test", Status: "enabled"},
		{Provider: "hotelbeds", Name: "api_key", KeyValue: "hb-key", Status: "enabled"},
	}
}

func TestGetFromStore(t *testing.T) {
	repo := &mockCredentialRepo{
		listEnabledFunc: func(ctx context.Context) ([]models.ProviderCredential, error) {
			return testRows(), nil
		},
	}
	store := NewDefaultCredentialStore(repo, time.Minute, zap.NewNop())

	if got := store.Get("amadeus", "client_id"); got != "id-123" {
		t.Fatalf("expected id-123, got %q", got)
	}
	if got := store.Get("AMADEUS", "CLIENT_SECRET"); got != "sec-456" {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
	if got := store.GetBaseURL("amadeus"); got != "https://api.amadeus.test" {
		t.Fatalf("expected base url, got %q", got)
	}
	if got := store.Get("amadeus", "missing"); got != "" {
		t.Fatalf("expected empty for unknown name, got %q", got)
	}
}

func TestSnapshotCachedWithinTTL(t *testing.T) {
	repo := &mockCredentialRepo{
		listEnabledFunc: func(ctx context.Context) ([]models.ProviderCredential, error) {
			return testRows(), nil
		},
	}
	store := NewDefaultCredentialStore(repo, time.Minute, zap.NewNop())

	for i := 0; i < 10; i++ {
		store.Get("amadeus", "client_id")
		store.GetBaseURL("hotelbeds")
	}

	if calls := atomic.LoadInt32(&repo.calls); calls != 1 {
		t.Fatalf("expected a single backing read within the TTL, got %d", calls)
	}
}

func TestSnapshotRefreshAfterTTL(t *testing.T) {
	repo := &mockCredentialRepo{
		listEnabledFunc: func(ctx context.Context) ([]models.ProviderCredential, error) {
			return testRows(), nil
		},
	}
	store := NewDefaultCredentialStore(repo, 10*time.Millisecond, zap.NewNop())

	store.Get("amadeus", "client_id")
	time.Sleep(20 * time.Millisecond)
	store.Get("amadeus", "client_id")

	if calls := atomic.LoadInt32(&repo.calls); calls != 2 {
		t.Fatalf("expected a second backing read after TTL expiry, got %d", calls)
	}
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	repo := &mockCredentialRepo{
		listEnabledFunc: func(ctx context.Context) ([]models.ProviderCredential, error) {
			return nil, errors.New("store unreachable")
		},
	}
	store := NewDefaultCredentialStore(repo, time.Minute, zap.NewNop())

	if got := store.Get("amadeus", "client_id"); got != "" {
		t.Fatalf("expected empty value on read failure, got %q", got)
	}
	if got := store.GetBaseURL("amadeus"); got != "" {
		t.Fatalf("expected empty base url on read failure, got %q", got)
	}
}

func TestEnvOverrideWins(t *testing.T) {
	repo := &mockCredentialRepo{
		listEnabledFunc: func(ctx context.Context) ([]models.ProviderCredential, error) {
			return testRows(), nil
		},
	}
	store := NewDefaultCredentialStore(repo, time.Minute, zap.NewNop())

	t.Setenv("PROVIDERS_AMADEUS_CLIENT_ID", "env-override")
	t.Setenv("PROVIDERS_AMADEUS_BASE_URL", "https://env.amadeus.test")

	if got := store.Get("amadeus", "client_id"); got != "env-override" {
		t.Fatalf("expected env override, got %q", got)
	}
	if got := store.GetBaseURL("amadeus"); got != "https://env.amadeus.test" {
		t.Fatalf("expected env base url override, got %q", got)
	}
	// Non-overridden names still come from the store.
	if got := store.Get("amadeus", "client_secret"); got != "sec-456" {
		t.Fatalf("expected stored value, got %q", got)
	}
}
