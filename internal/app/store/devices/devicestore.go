// internal/app/store/devices/devicestore.go
package devicestore

import (
	"context"
	"strings"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("devices")}
}

// Register upserts a device token for a user. A token already known to
// the system is reassigned to the registering user, which handles a
// phone changing hands between accounts.
func (s *Store) Register(ctx context.Context, userID primitive.ObjectID, token, platform string) (models.Device, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Device{}, apperr.New(apperr.Validation, "device token is required")
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	switch platform {
	case models.PlatformIOS, models.PlatformAndroid:
	default:
		return models.Device{}, apperr.New(apperr.Validation, `platform must be "ios" or "android"`)
	}

	now := time.Now().UTC()
	after := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var dev models.Device
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"token": token},
		bson.M{
			"$set": bson.M{
				"user_id":  userID,
				"platform": platform,
				"seen_at":  now,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"created_at": now,
			},
		},
		after).Decode(&dev)
	if err != nil {
		return models.Device{}, err
	}
	return dev, nil
}

// Unregister drops a device token; unknown tokens are a no-op.
func (s *Store) Unregister(ctx context.Context, userID primitive.ObjectID, token string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"token": strings.TrimSpace(token), "user_id": userID})
	return err
}

// ListForUsers returns every registered device for the given users.
// The notification dispatcher fans a post out to this set.
func (s *Store) ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Device, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var devices []models.Device
	if err := cur.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
