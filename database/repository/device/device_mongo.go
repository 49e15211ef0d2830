package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/database"
)

// DeviceTokenRepository stores FCM registration tokens per user for
// reminder push delivery.
type DeviceTokenRepository interface {
	// GetToken returns the user's current token, or "" when none is known.
	GetToken(ctx context.Context, userID string) (string, error)

	// SaveToken upserts the user's token.
	SaveToken(ctx context.Context, userID, token string) error
}

type deviceToken struct {
	UserID    string    `bson:"user_id"`
	FCMToken  string    `bson:"fcm_token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDeviceTokenRepo implements DeviceTokenRepository using MongoDB.
type MongoDeviceTokenRepo struct {
	tokenColl *mongo.Collection
}

// NewMongoDeviceTokenRepo constructs a new instance of MongoDeviceTokenRepo.
func NewMongoDeviceTokenRepo() DeviceTokenRepository {
	return &MongoDeviceTokenRepo{
		tokenColl: database.DB().Collection("device_tokens"),
	}
}

func (repo *MongoDeviceTokenRepo) GetToken(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dt deviceToken
	err := repo.tokenColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&dt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("error fetching device token for user %s: %w", userID, err)
	}
	return dt.FCMToken, nil
}

func (repo *MongoDeviceTokenRepo) SaveToken(ctx context.Context, userID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"user_id":    userID,
		"fcm_token":  token,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.tokenColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error saving device token for user %s: %w", userID, err)
	}
	return nil
}
