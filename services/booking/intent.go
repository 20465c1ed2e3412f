package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voyago/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// intentTTL bounds how long an unconfirmed checkout stays bookable.
const intentTTL = 30 * time.Minute

// IntentStore holds in-flight booking intents keyed by order number.
type IntentStore interface {
	Create(ctx context.Context, intent *models.BookingIntent) error
	Get(ctx context.Context, orderNumber string) (*models.BookingIntent, error)
	Clear(ctx context.Context, orderNumber string) error
}

// RedisIntentStore is the production implementation, mirroring the cart's
// checkout session lifetime.
type RedisIntentStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisIntentStore creates an intent store with the default TTL.
func NewRedisIntentStore(client *redis.Client) *RedisIntentStore {
	return &RedisIntentStore{Client: client, TTL: intentTTL}
}

// Create stores a new intent, assigning an order number when absent.
func (s *RedisIntentStore) Create(ctx context.Context, intent *models.BookingIntent) error {
	if intent.OrderNumber == "" {
		intent.OrderNumber = "ORD-" + uuid.New().String()
	}
	intent.Status = models.IntentStatusPending
	intent.CreatedAt = time.Now()

	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal booking intent: %w", err)
	}
	if err := s.Client.Set(ctx, intentKey(intent.OrderNumber), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking intent: %w", err)
	}
	return nil
}

// Get retrieves an intent by order number. Missing or expired intents return
// ErrIntentNotFound.
func (s *RedisIntentStore) Get(ctx context.Context, orderNumber string) (*models.BookingIntent, error) {
	data, err := s.Client.Get(ctx, intentKey(orderNumber)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to read booking intent: %w", err)
	}

	var intent models.BookingIntent
	if err := json.Unmarshal([]byte(data), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse booking intent: %w", err)
	}
	return &intent, nil
}

// Clear removes the intent once its terminal outcome has been observed.
func (s *RedisIntentStore) Clear(ctx context.Context, orderNumber string) error {
	return s.Client.Del(ctx, intentKey(orderNumber)).Err()
}

func intentKey(orderNumber string) string {
	return "intent:" + orderNumber
}
