// internal/domain/models/follower.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowState is the closed set of states a (user, organization)
// relationship can be in. Stored as a string in Mongo but only ever
// constructed from the constants below; stores validate on write.
type FollowState string

const (
	// StatePending: join requested, awaiting an admin decision or a
	// correct access code.
	StatePending FollowState = "pending"
	// StateFollower: approved member.
	StateFollower FollowState = "follower"
	// StateAdmin: approved member with moderation rights.
	StateAdmin FollowState = "admin"
	// StateRejected: an admin explicitly denied the request.
	StateRejected FollowState = "rejected"
	// StateNotFollower: explicit post-unfollow state. The record is kept
	// so the history and the (user, org) uniqueness invariant survive.
	StateNotFollower FollowState = "not_follower"
)

// Valid reports whether s is one of the defined states.
func (s FollowState) Valid() bool {
	switch s {
	case StatePending, StateFollower, StateAdmin, StateRejected, StateNotFollower:
		return true
	}
	return false
}

// Member reports whether the state grants member-level access
// (viewing posts, commenting, receiving push notifications).
func (s FollowState) Member() bool {
	return s == StateFollower || s == StateAdmin
}

// FollowerRelationship is the authoritative join between users and
// organizations. Exactly one document per (user_id, organization_id);
// the pair is enforced unique by index. Relationships are never
// hard-deleted; "unfollow" transitions to StateNotFollower.
type FollowerRelationship struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	State      FollowState `bson:"state" json:"state"`
	FollowDate time.Time   `bson:"follow_date" json:"follow_date"`

	// Audit fields, set when an admin acts on a pending request.
	// Last writer wins.
	ApprovalUserID *primitive.ObjectID `bson:"approval_user_id,omitempty" json:"approval_user_id,omitempty"`
	ApprovalDate   *time.Time          `bson:"approval_date,omitempty" json:"approval_date,omitempty"`
}
