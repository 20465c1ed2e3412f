package credential

import (
	"context"
	"fmt"
	"time"

	"voyago/database"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CredentialRepository is the read-only view over the admin-managed
// provider credential table. The core never writes to it.
type CredentialRepository interface {
	ListEnabled(ctx context.Context) ([]models.ProviderCredential, error)
}

// MongoCredentialRepo implements CredentialRepository using MongoDB.
type MongoCredentialRepo struct {
	coll *mongo.Collection
}

// NewMongoCredentialRepo creates a new instance of CredentialRepository using MongoDB.
func NewMongoCredentialRepo() CredentialRepository {
	coll := database.Database().Collection("provider_credentials")
	return &MongoCredentialRepo{coll: coll}
}

// ListEnabled returns every enabled credential row. Disabled rows are
// invisible to the integration layer.
func (r *MongoCredentialRepo) ListEnabled(ctx context.Context) ([]models.ProviderCredential, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"status": "enabled"})
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.ProviderCredential
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return rows, nil
}
