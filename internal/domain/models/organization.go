// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility values for an organization.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Organization is a node in the content hierarchy (e.g. school board →
// school → club). ParentID is nil for a root organization.
//
// NOTE:
//   - AccessCode is set only on private organizations that gate joining
//     behind a code; private organizations without a code queue join
//     requests for admin approval instead.
//   - ChildCount/PostCount/FollowerCount are denormalized counters kept
//     in sync by the stores that create the counted records.
type Organization struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`
	Handle string             `bson:"handle" json:"handle"`

	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`

	Visibility             string `bson:"visibility" json:"visibility"`
	AccessCode             string `bson:"access_code,omitempty" json:"-"`
	ParentApprovalRequired bool   `bson:"parent_approval_required" json:"parent_approval_required"`

	Description     string `bson:"description" json:"description"`
	ProfilePhotoURL string `bson:"profile_photo_url" json:"profile_photo_url"`
	CoverPhotoURL   string `bson:"cover_photo_url" json:"cover_photo_url"`

	ChildCount    int64 `bson:"child_count" json:"child_count"`
	PostCount     int64 `bson:"post_count" json:"post_count"`
	FollowerCount int64 `bson:"follower_count" json:"follower_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsPrivate reports whether joining the organization requires approval or
// an access code.
func (o Organization) IsPrivate() bool { return o.Visibility == VisibilityPrivate }

// CodeGated reports whether the organization requires an access code to join.
func (o Organization) CodeGated() bool { return o.IsPrivate() && o.AccessCode != "" }
