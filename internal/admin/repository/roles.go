package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/config"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "User_roles"

type RoleRepository interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Grant(ctx context.Context, userID, role string) error
}

type mongoRoleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoleRepository(cfg *config.Config) RoleRepository {
	return &mongoRoleRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoRoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "role": role}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up role: %w", err)
	}
	return n > 0, nil
}

// Grant is idempotent: granting a role the user already holds is a no-op.
func (r *mongoRoleRepository) Grant(ctx context.Context, userID, role string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "role": role}
	update := bson.M{"$setOnInsert": model.UserRole{
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}
