// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account. Authorization is not carried here: whether
// a user may moderate an organization is derived entirely from their
// FollowerRelationship state for that organization.
type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	Email      string             `bson:"email" json:"email"`

	PasswordHash string `bson:"password_hash" json:"-"`

	Description     string `bson:"description" json:"description"`
	ProfilePhotoURL string `bson:"profile_photo_url" json:"profile_photo_url"`
	CoverPhotoURL   string `bson:"cover_photo_url" json:"cover_photo_url"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
