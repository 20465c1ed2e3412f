package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus reports the dependencies a booking cannot complete without:
// the bookings store holding the idempotency markers and the intent cache.
type HealthStatus struct {
	BookingsStore bool      `json:"bookings_store"`
	IntentCache   bool      `json:"intent_cache"`
	CheckedAt     time.Time `json:"checked_at"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor probes the bookings store and the intent cache every
// minute and keeps the snapshot in memory for the health endpoint.
func StartHealthMonitor(intentCache *redis.Client, bookingsStore *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			snapshot := HealthStatus{
				BookingsStore: bookingsStore.Ping(ctx, nil) == nil,
				IntentCache:   intentCache.Ping(ctx).Err() == nil,
				CheckedAt:     time.Now(),
			}
			cancel()

			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}
	}()
}
