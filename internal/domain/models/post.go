// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatus is the closed set of moderation states for a post.
type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
	PostRejected PostStatus = "rejected"
)

// Valid reports whether s is one of the defined statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostPending, PostApproved, PostRejected:
		return true
	}
	return false
}

// MaxPostTitleLen is the maximum title length in runes.
const MaxPostTitleLen = 30

// Post is a content item owned by one organization. It becomes visible
// to followers only while approved, not deleted, and inside its display
// window [PostStartDate, PostEndDate].
type Post struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	Title    string `bson:"title" json:"title"`
	TitleCI  string `bson:"title_ci" json:"-"`
	Body     string `bson:"body" json:"body"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	Priority      int       `bson:"priority" json:"priority"`
	PostStartDate time.Time `bson:"post_start_date" json:"post_start_date"`
	PostEndDate   time.Time `bson:"post_end_date" json:"post_end_date"`

	Status PostStatus `bson:"status" json:"status"`
	// ApprovalRequired is computed at creation:
	// organization.ParentApprovalRequired OR NotifyParent.
	ApprovalRequired bool `bson:"approval_required" json:"approval_required"`
	// NotifyParent: the author requested parent-organization co-approval.
	NotifyParent bool `bson:"notify_parent" json:"notify_parent"`

	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	ModeratorID     *primitive.ObjectID `bson:"moderator_id,omitempty" json:"moderator_id,omitempty"`
	ModerationDate  *time.Time          `bson:"moderation_date,omitempty" json:"moderation_date,omitempty"`

	IsDeleted            bool  `bson:"is_deleted" json:"is_deleted"`
	PushNotificationSent bool  `bson:"push_notification_sent" json:"push_notification_sent"`
	CommentsCount        int64 `bson:"comments_count" json:"comments_count"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// VisibleAt reports whether the post is publicly visible to followers at
// the given instant.
func (p Post) VisibleAt(now time.Time) bool {
	if p.Status != PostApproved || p.IsDeleted {
		return false
	}
	return !now.Before(p.PostStartDate) && !now.After(p.PostEndDate)
}
