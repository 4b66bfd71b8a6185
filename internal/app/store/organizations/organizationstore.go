// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/htmlsanitize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/normalize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MaxTreeDepth bounds the organization hierarchy. The parent chain is
// walked on every parent write, so the bound also caps that walk.
const MaxTreeDepth = 16

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

var ErrDuplicateHandle = apperr.New(apperr.Conflict, "an organization with this handle already exists")

// GetByID loads an organization.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// GetByHandle looks up an organization by its normalized handle.
func (s *Store) GetByHandle(ctx context.Context, handle string) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"handle": normalize.Handle(handle)}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// Create inserts a new organization after normalizing & validating
// fields. If a parent is given it must exist; the parent's child_count
// is incremented after the insert commits.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	org.ID = primitive.NewObjectID()
	org.Name = normalize.Name(org.Name)
	org.NameCI = text.Fold(org.Name)
	org.Handle = normalize.Handle(org.Handle)
	org.Visibility = normalize.Visibility(org.Visibility)
	org.AccessCode = normalize.AccessCode(org.AccessCode)
	org.Description = htmlsanitize.PlainText(org.Description)

	if org.Name == "" {
		return models.Organization{}, apperr.New(apperr.Validation, "name is required")
	}
	if org.Handle == "" {
		return models.Organization{}, apperr.New(apperr.Validation, "handle is required")
	}
	switch org.Visibility {
	case models.VisibilityPublic, models.VisibilityPrivate:
	default:
		return models.Organization{}, apperr.New(apperr.Validation, `visibility must be "public" or "private"`)
	}
	if org.AccessCode != "" && org.Visibility != models.VisibilityPrivate {
		return models.Organization{}, apperr.New(apperr.Validation, "access code requires a private organization")
	}

	if org.ParentID != nil {
		if err := s.ValidateParent(ctx, org.ID, *org.ParentID); err != nil {
			return models.Organization{}, err
		}
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	org.ChildCount, org.PostCount, org.FollowerCount = 0, 0, 0

	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateHandle
		}
		return models.Organization{}, err
	}
	if org.ParentID != nil {
		s.bumpChildCount(ctx, *org.ParentID, 1)
	}
	return org, nil
}

// ValidateParent checks that parentID exists and that making it the
// parent of orgID keeps the graph an acyclic forest of bounded depth.
// The walk follows parent_id references upward; encountering orgID
// means a cycle, exceeding MaxTreeDepth means the tree is too deep.
func (s *Store) ValidateParent(ctx context.Context, orgID, parentID primitive.ObjectID) error {
	if parentID == orgID {
		return apperr.New(apperr.Validation, "organization cannot be its own parent")
	}

	cursor := parentID
	for depth := 0; depth < MaxTreeDepth; depth++ {
		var node struct {
			ParentID *primitive.ObjectID `bson:"parent_id"`
		}
		err := s.c.FindOne(ctx, bson.M{"_id": cursor},
			options.FindOne().SetProjection(bson.M{"parent_id": 1})).Decode(&node)
		if errors.Is(err, mongo.ErrNoDocuments) {
			if depth == 0 {
				return apperr.New(apperr.NotFound, "parent organization not found")
			}
			// Dangling ancestor reference; tolerated as a root.
			return nil
		}
		if err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == orgID {
			return apperr.New(apperr.Validation, "parent assignment would create a cycle")
		}
		cursor = *node.ParentID
	}
	return apperr.Newf(apperr.Validation, "organization tree exceeds maximum depth of %d", MaxTreeDepth)
}

// InfoUpdate holds the editable organization fields. Nil pointers mean
// "leave unchanged".
type InfoUpdate struct {
	Name                   *string
	Description            *string
	Visibility             *string
	AccessCode             *string
	ParentApprovalRequired *bool
}

// UpdateInfo edits an organization's profile and join configuration.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) (models.Organization, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		if name == "" {
			return models.Organization{}, apperr.New(apperr.Validation, "name is required")
		}
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Description != nil {
		set["description"] = htmlsanitize.PlainText(*upd.Description)
	}
	if upd.Visibility != nil {
		v := normalize.Visibility(*upd.Visibility)
		switch v {
		case models.VisibilityPublic, models.VisibilityPrivate:
		default:
			return models.Organization{}, apperr.New(apperr.Validation, `visibility must be "public" or "private"`)
		}
		set["visibility"] = v
		if v == models.VisibilityPublic {
			// Public organizations never gate on a code.
			unset["access_code"] = ""
		}
	}
	if upd.AccessCode != nil {
		code := normalize.AccessCode(*upd.AccessCode)
		if code == "" {
			unset["access_code"] = ""
		} else {
			set["access_code"] = code
		}
	}
	if upd.ParentApprovalRequired != nil {
		set["parent_approval_required"] = *upd.ParentApprovalRequired
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var org models.Organization
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// UpdateProfilePhoto and UpdateCoverPhoto store the already-uploaded
// photo's URL; binary storage is someone else's job.
func (s *Store) UpdateProfilePhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.setField(ctx, id, "profile_photo_url", url)
}

func (s *Store) UpdateCoverPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.setField(ctx, id, "cover_photo_url", url)
}

func (s *Store) setField(ctx context.Context, id primitive.ObjectID, field, value string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		field:        value,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "organization not found")
	}
	return nil
}

// GetParent returns the parent organization, or NotFound when orgID is
// a root (callers treat NotFound on the parent as "this is a root").
func (s *Store) GetParent(ctx context.Context, orgID primitive.ObjectID) (models.Organization, error) {
	org, err := s.GetByID(ctx, orgID)
	if err != nil {
		return models.Organization{}, err
	}
	if org.ParentID == nil {
		return models.Organization{}, apperr.New(apperr.NotFound, "organization has no parent")
	}
	return s.GetByID(ctx, *org.ParentID)
}

// ListChildren returns a page of direct children ordered by name.
func (s *Store) ListChildren(ctx context.Context, orgID primitive.ObjectID, rng paging.Range) ([]models.Organization, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(rng.Skip).SetLimit(rng.Limit)
	cur, err := s.c.Find(ctx, bson.M{"parent_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListDescendantIDs collects the IDs of every organization below orgID,
// breadth-first, bounded by MaxTreeDepth. Used by the feed to surface
// escalated posts from a followed organization's child hierarchy.
func (s *Store) ListDescendantIDs(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var all []primitive.ObjectID
	frontier := []primitive.ObjectID{orgID}

	for depth := 0; depth < MaxTreeDepth && len(frontier) > 0; depth++ {
		cur, err := s.c.Find(ctx,
			bson.M{"parent_id": bson.M{"$in": frontier}},
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, err
		}

		var next []primitive.ObjectID
		for cur.Next(ctx) {
			var row struct {
				ID primitive.ObjectID `bson:"_id"`
			}
			if err := cur.Decode(&row); err != nil {
				cur.Close(ctx)
				return nil, err
			}
			next = append(next, row.ID)
		}
		if err := cur.Err(); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		cur.Close(ctx)

		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// ListByIDs loads a set of organizations keyed by ID.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Organization, error) {
	out := make(map[primitive.ObjectID]models.Organization, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var org models.Organization
		if err := cur.Decode(&org); err != nil {
			return nil, err
		}
		out[org.ID] = org
	}
	return out, cur.Err()
}

func (s *Store) bumpChildCount(ctx context.Context, orgID primitive.ObjectID, delta int) {
	_, err := s.c.UpdateByID(ctx, orgID, bson.M{"$inc": bson.M{"child_count": delta}})
	if err != nil {
		zap.L().Warn("child_count update failed",
			zap.String("organization_id", orgID.Hex()),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}
