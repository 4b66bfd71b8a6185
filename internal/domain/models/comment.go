// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a user comment on a post. Soft-deleted by its author; the
// parent post's comments_count is incremented on creation and never
// decremented on delete (displayed counts include deleted comments).
// AuthorName is denormalized at write time for cheap thread rendering.
type Comment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID   primitive.ObjectID `bson:"post_id" json:"post_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	AuthorName string `bson:"author_name" json:"author_name"`
	Body       string `bson:"body" json:"body"`
	IsDeleted  bool   `bson:"is_deleted" json:"is_deleted"`

	CommentDate time.Time `bson:"comment_date" json:"comment_date"`
}
