// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/htmlsanitize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c    *mongo.Collection
	orgs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:    db.Collection("posts"),
		orgs: db.Collection("organizations"),
	}
}

// CreateInput carries everything submit needs. OrganizationID is fixed
// at creation and never changes afterwards.
type CreateInput struct {
	OrganizationID primitive.ObjectID
	Title          string
	Body           string
	ImageURL       string
	Priority       int
	StartDate      time.Time
	EndDate        time.Time
	NotifyParent   bool
	CreatedBy      primitive.ObjectID
}

// GetByID loads a post. Soft-deleted posts are still loadable here;
// callers that must not see them filter on IsDeleted.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, apperr.New(apperr.NotFound, "post not found")
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Create validates and inserts a post. Validation failures happen
// before any write; on success the owning organization's post_count is
// incremented. Notifying the parent organization's admins is the
// caller's post-commit concern, never part of the insert.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Post, error) {
	if err := ValidateTitle(in.Title); err != nil {
		return models.Post{}, err
	}
	if err := ValidateWindow(in.StartDate, in.EndDate); err != nil {
		return models.Post{}, err
	}

	var org models.Organization
	err := s.orgs.FindOne(ctx, bson.M{"_id": in.OrganizationID}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return models.Post{}, err
	}

	approvalRequired := ApprovalRequired(org, in.NotifyParent)
	now := time.Now().UTC()
	title := strings.TrimSpace(in.Title)

	p := models.Post{
		ID:               primitive.NewObjectID(),
		OrganizationID:   in.OrganizationID,
		Title:            title,
		TitleCI:          text.Fold(title),
		Body:             htmlsanitize.Sanitize(in.Body),
		ImageURL:         strings.TrimSpace(in.ImageURL),
		Priority:         in.Priority,
		PostStartDate:    in.StartDate.UTC(),
		PostEndDate:      in.EndDate.UTC(),
		Status:           InitialStatus(approvalRequired),
		ApprovalRequired: approvalRequired,
		NotifyParent:     in.NotifyParent,
		CreatedBy:        in.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	s.bumpPostCount(ctx, in.OrganizationID, 1)
	return p, nil
}

// Decide applies a moderation decision to a PENDING post. The filter
// makes it a compare-and-set: a post that is not pending anymore yields
// Conflict. priority, when non-nil, lets the moderator reorder the post
// while approving it.
func (s *Store) Decide(ctx context.Context, postID, moderatorID primitive.ObjectID, approve bool, reason string, priority *int) (models.Post, error) {
	status := models.PostApproved
	set := bson.M{
		"moderator_id":    moderatorID,
		"moderation_date": time.Now().UTC(),
		"updated_at":      time.Now().UTC(),
	}
	if !approve {
		status = models.PostRejected
		if r := strings.TrimSpace(reason); r != "" {
			set["rejection_reason"] = htmlsanitize.PlainText(r)
		}
	}
	set["status"] = status
	if priority != nil {
		set["priority"] = *priority
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "status": models.PostPending, "is_deleted": false},
		bson.M{"$set": set},
		after).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, getErr := s.GetByID(ctx, postID)
		if getErr != nil {
			return models.Post{}, getErr
		}
		if existing.IsDeleted {
			return models.Post{}, apperr.New(apperr.NotFound, "post not found")
		}
		return models.Post{}, apperr.Newf(apperr.Conflict, "post is already %s", existing.Status)
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// SoftDelete marks a post deleted. The record survives so comment
// history and audit trails stay intact; every listing query excludes
// deleted posts. Idempotent.
func (s *Store) SoftDelete(ctx context.Context, postID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, postID, bson.M{"$set": bson.M{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "post not found")
	}
	return nil
}

// visibleFilter is the visibility predicate as a Mongo filter:
// approved, not deleted, display window containing now.
func visibleFilter(now time.Time) bson.M {
	return bson.M{
		"status":          models.PostApproved,
		"is_deleted":      false,
		"post_start_date": bson.M{"$lte": now},
		"post_end_date":   bson.M{"$gte": now},
	}
}

// Feed returns the page of visible posts for a user's feed: posts owned
// by organizations in followedIDs, plus escalated (notify_parent) posts
// owned by organizations in childIDs (the followed organizations' child
// hierarchy). Ordered by priority descending, then start date
// descending.
func (s *Store) Feed(ctx context.Context, followedIDs, childIDs []primitive.ObjectID, now time.Time, rng paging.Range) ([]models.Post, error) {
	if len(followedIDs) == 0 && len(childIDs) == 0 {
		return nil, nil
	}

	filter := visibleFilter(now.UTC())
	owners := bson.A{}
	if len(followedIDs) > 0 {
		owners = append(owners, bson.M{"organization_id": bson.M{"$in": followedIDs}})
	}
	if len(childIDs) > 0 {
		owners = append(owners, bson.M{
			"organization_id": bson.M{"$in": childIDs},
			"notify_parent":   true,
		})
	}
	filter["$or"] = owners

	opts := options.Find().
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "post_start_date", Value: -1}}).
		SetSkip(rng.Skip).SetLimit(rng.Limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListForOrg returns an organization's posts, newest window first.
// includeHidden (admin view) includes pending, rejected, and
// out-of-window posts; deleted posts are excluded for everyone.
func (s *Store) ListForOrg(ctx context.Context, orgID primitive.ObjectID, includeHidden bool, now time.Time, rng paging.Range) ([]models.Post, error) {
	var filter bson.M
	if includeHidden {
		filter = bson.M{"organization_id": orgID, "is_deleted": false}
	} else {
		filter = visibleFilter(now.UTC())
		filter["organization_id"] = orgID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "post_start_date", Value: -1}}).
		SetSkip(rng.Skip).SetLimit(rng.Limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ScanForNotification finds posts whose display window has opened and
// that have not had their push fanout yet. The dispatcher marks each
// one sent only after a successful dispatch, so failed posts reappear
// on the next scan.
func (s *Store) ScanForNotification(ctx context.Context, now time.Time) ([]models.Post, error) {
	filter := visibleFilter(now.UTC())
	filter["push_notification_sent"] = bson.M{"$ne": true}

	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MarkNotified flags a post's push fanout as done.
func (s *Store) MarkNotified(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, postID, bson.M{"$set": bson.M{"push_notification_sent": true}})
	return err
}

// bumpPostCount adjusts the organization's denormalized counter. The
// post write has committed; a counter failure is logged, not surfaced.
func (s *Store) bumpPostCount(ctx context.Context, orgID primitive.ObjectID, delta int) {
	_, err := s.orgs.UpdateByID(ctx, orgID, bson.M{"$inc": bson.M{"post_count": delta}})
	if err != nil {
		zap.L().Warn("post_count update failed",
			zap.String("organization_id", orgID.Hex()),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}
