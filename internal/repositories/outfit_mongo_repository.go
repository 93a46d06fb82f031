package repositories

import (
	"context"
	"fmt"
	"time"

	"styleshop/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const outfitsCollection = "outfits"

// MongoOutfitRepository stores saved outfits as documents.
type MongoOutfitRepository struct {
	coll *mongo.Collection
}

// NewMongoOutfitRepository creates the repository and ensures its index.
func NewMongoOutfitRepository(ctx context.Context, db *mongo.Database) (*MongoOutfitRepository, error) {
	coll := db.Collection(outfitsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create outfits index: %w", err)
	}
	return &MongoOutfitRepository{coll: coll}, nil
}

// ConnectMongo dials MongoDB and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(c, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(c, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func (r *MongoOutfitRepository) ListByUser(ctx context.Context, userID string) ([]models.Outfit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits of user %s: %w", userID, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	outfits := []models.Outfit{}
	if err := cur.All(ctx, &outfits); err != nil {
		return nil, fmt.Errorf("failed to decode outfits: %w", err)
	}
	return outfits, nil
}

func (r *MongoOutfitRepository) Create(ctx context.Context, outfit *models.Outfit) error {
	if outfit.ID == "" {
		outfit.ID = uuid.New().String()
	}
	if outfit.CreatedAt.IsZero() {
		outfit.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, outfit); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("outfit %s: %w", outfit.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create outfit: %w", err)
	}
	return nil
}

func (r *MongoOutfitRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete outfit %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("outfit %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoOutfitRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete outfits of user %s: %w", userID, err)
	}
	return nil
}
