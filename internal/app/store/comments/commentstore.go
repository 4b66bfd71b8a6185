// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/htmlsanitize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c     *mongo.Collection
	posts *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("comments"),
		posts: db.Collection("posts"),
	}
}

// Create attaches a comment to a post. The post must exist and not be
// deleted. The post's comments_count is incremented after the insert;
// the counter is never decremented, even when the comment is later
// removed.
func (s *Store) Create(ctx context.Context, postID, authorID primitive.ObjectID, authorName, body string) (models.Comment, error) {
	body = strings.TrimSpace(htmlsanitize.PlainText(body))
	if body == "" {
		return models.Comment{}, apperr.New(apperr.Validation, "comment body is required")
	}

	err := s.posts.FindOne(ctx,
		bson.M{"_id": postID, "is_deleted": bson.M{"$ne": true}},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, apperr.New(apperr.NotFound, "post not found")
	}
	if err != nil {
		return models.Comment{}, err
	}

	cmt := models.Comment{
		ID:          primitive.NewObjectID(),
		PostID:      postID,
		AuthorID:    authorID,
		AuthorName:  authorName,
		Body:        body,
		CommentDate: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, cmt); err != nil {
		return models.Comment{}, err
	}
	s.bumpCommentCount(ctx, postID)
	return cmt, nil
}

// ListForPost returns a page of a post's comments, newest first,
// excluding deleted ones.
func (s *Store) ListForPost(ctx context.Context, postID primitive.ObjectID, rng paging.Range) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "comment_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(rng.Skip).SetLimit(rng.Limit)
	cur, err := s.c.Find(ctx, bson.M{
		"post_id":    postID,
		"is_deleted": bson.M{"$ne": true},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SoftDelete hides a comment. Only its author may remove it; a second
// delete of the same comment is a no-op.
func (s *Store) SoftDelete(ctx context.Context, commentID, authorID primitive.ObjectID) error {
	var cmt models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": commentID}).Decode(&cmt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.New(apperr.NotFound, "comment not found")
	}
	if err != nil {
		return err
	}
	if cmt.AuthorID != authorID {
		return apperr.New(apperr.Forbidden, "only the comment author can delete it")
	}
	if cmt.IsDeleted {
		return nil
	}

	_, err = s.c.UpdateByID(ctx, commentID, bson.M{"$set": bson.M{"is_deleted": true}})
	return err
}

func (s *Store) bumpCommentCount(ctx context.Context, postID primitive.ObjectID) {
	_, err := s.posts.UpdateByID(ctx, postID, bson.M{"$inc": bson.M{"comments_count": 1}})
	if err != nil {
		zap.L().Warn("comments_count update failed",
			zap.String("post_id", postID.Hex()),
			zap.Error(err))
	}
}
