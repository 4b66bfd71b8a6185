// internal/domain/models/device.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device platforms.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Device is a registered push-notification client bound to a user.
// A user may have several devices; tokens are unique across users.
type Device struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Token    string `bson:"token" json:"token"`
	Platform string `bson:"platform" json:"platform"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	SeenAt    time.Time `bson:"seen_at" json:"seen_at"`
}
