// internal/app/store/followers/followerstore.go
package followerstore

// The followers collection is the authoritative join between users and
// organizations: exactly one document per (user_id, organization_id),
// enforced by a unique compound index. Every operation here is a single
// conditional record mutation so two concurrent requests for the same
// pair converge on one record with first-writer-wins semantics.

import (
	"context"
	"errors"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/normalize"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
		c:    db.Collection("followers"),
		orgs: db.Collection("organizations"),
	}
}

var memberStates = []models.FollowState{models.StateFollower, models.StateAdmin}

// Get loads the relationship for (userID, orgID).
func (s *Store) Get(ctx context.Context, userID, orgID primitive.ObjectID) (models.FollowerRelationship, error) {
	var rel models.FollowerRelationship
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "organization_id": orgID}).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FollowerRelationship{}, apperr.New(apperr.NotFound, "follower relationship not found")
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	return rel, nil
}

// GetByID loads a relationship by its own ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.FollowerRelationship, error) {
	var rel models.FollowerRelationship
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FollowerRelationship{}, apperr.New(apperr.NotFound, "follow request not found")
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	return rel, nil
}

func (s *Store) loadOrg(ctx context.Context, orgID primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.orgs.FindOne(ctx, bson.M{"_id": orgID}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// RequestFollow creates or revives the relationship for (userID, orgID)
// according to the organization's visibility:
//
//   - public: the caller becomes FOLLOWER
//   - private without access code: the caller becomes PENDING
//   - private with access code: Validation error; use SubmitAccessCode
//
// Calling it again while PENDING/FOLLOWER/ADMIN is a no-op returning the
// current relationship. From REJECTED or NOT_FOLLOWER it behaves like an
// initial request.
func (s *Store) RequestFollow(ctx context.Context, userID, orgID primitive.ObjectID) (models.FollowerRelationship, error) {
	org, err := s.loadOrg(ctx, orgID)
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	initial, err := InitialState(org)
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	return s.enter(ctx, userID, orgID, initial)
}

// enter upserts the relationship into `to` (a fresh-join state), reviving
// rejoinable records. Concurrent callers converge: the unique index plus
// $setOnInsert guarantee a single document; the loser just reads the
// winner's write.
func (s *Store) enter(ctx context.Context, userID, orgID primitive.ObjectID, to models.FollowState) (models.FollowerRelationship, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "organization_id": orgID}

	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$setOnInsert": bson.M{
		"user_id":         userID,
		"organization_id": orgID,
		"state":           to,
		"follow_date":     now,
	}}, options.Update().SetUpsert(true))
	if err != nil && !wafflemongo.IsDup(err) {
		return models.FollowerRelationship{}, err
	}
	if err == nil && res.UpsertedCount == 1 {
		if to.Member() {
			s.bumpFollowerCount(ctx, orgID, 1)
		}
		return s.Get(ctx, userID, orgID)
	}

	// Document already existed. Revive it only from a rejoinable state;
	// anything else is an idempotent no-op.
	revive := bson.M{"user_id": userID, "organization_id": orgID,
		"state": bson.M{"$in": []models.FollowState{models.StateRejected, models.StateNotFollower}}}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rel models.FollowerRelationship
	err = s.c.FindOneAndUpdate(ctx, revive, bson.M{
		"$set":   bson.M{"state": to, "follow_date": now},
		"$unset": bson.M{"approval_user_id": "", "approval_date": ""},
	}, after).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Not rejoinable (or a concurrent reviver won): return as-is.
		return s.Get(ctx, userID, orgID)
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	if to.Member() {
		s.bumpFollowerCount(ctx, orgID, 1)
	}
	return rel, nil
}

// SeedAdmin makes userID an ADMIN of orgID directly, bypassing the
// join flow. Used once per organization, for its creator; an existing
// relationship (a concurrent join) is promoted instead.
func (s *Store) SeedAdmin(ctx context.Context, userID, orgID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "organization_id": orgID},
		bson.M{"$set": bson.M{"state": models.StateAdmin},
			"$setOnInsert": bson.M{
				"user_id":         userID,
				"organization_id": orgID,
				"follow_date":     now,
			}},
		options.Update().SetUpsert(true))
	if err != nil && !wafflemongo.IsDup(err) {
		return err
	}
	if err == nil && res.UpsertedCount == 1 {
		s.bumpFollowerCount(ctx, orgID, 1)
	}
	return nil
}

// SubmitAccessCode checks code against a code-gated organization. A
// correct code makes the caller FOLLOWER (creating the relationship if
// needed); a wrong code leaves the caller PENDING, creating the PENDING
// record on first attempt so admins can see the knock.
func (s *Store) SubmitAccessCode(ctx context.Context, userID, orgID primitive.ObjectID, code string) (models.FollowerRelationship, bool, error) {
	org, err := s.loadOrg(ctx, orgID)
	if err != nil {
		return models.FollowerRelationship{}, false, err
	}
	if !org.CodeGated() {
		return models.FollowerRelationship{}, false, apperr.New(apperr.Validation, "organization does not use an access code")
	}
	code = normalize.AccessCode(code)
	if code == "" {
		return models.FollowerRelationship{}, false, apperr.New(apperr.Validation, "access code required")
	}

	if code != org.AccessCode {
		rel, err := s.enter(ctx, userID, orgID, models.StatePending)
		if err != nil {
			return models.FollowerRelationship{}, false, err
		}
		return rel, false, nil
	}

	rel, err := s.enter(ctx, userID, orgID, models.StateFollower)
	if err != nil {
		return models.FollowerRelationship{}, false, err
	}
	// enter only revives rejoinable states; a PENDING knock advancing on
	// the correct code is handled here.
	if rel.State == models.StatePending {
		after := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.c.FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "organization_id": orgID, "state": models.StatePending},
			bson.M{"$set": bson.M{"state": models.StateFollower}},
			after).Decode(&rel)
		if errors.Is(err, mongo.ErrNoDocuments) {
			rel, err = s.Get(ctx, userID, orgID)
			if err != nil {
				return models.FollowerRelationship{}, false, err
			}
			return rel, true, nil
		}
		if err != nil {
			return models.FollowerRelationship{}, false, err
		}
		s.bumpFollowerCount(ctx, orgID, 1)
	}
	return rel, true, nil
}

// Decide applies an admin's approve/reject to a PENDING request. The
// conditional filter makes the transition a compare-and-set: a request
// that was already decided yields Conflict, never a double transition.
func (s *Store) Decide(ctx context.Context, relID, approverID primitive.ObjectID, approve bool) (models.FollowerRelationship, error) {
	to := DecisionState(approve)
	now := time.Now().UTC()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rel models.FollowerRelationship
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": relID, "state": models.StatePending},
		bson.M{"$set": bson.M{
			"state":            to,
			"approval_user_id": approverID,
			"approval_date":    now,
		}},
		after).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := s.GetByID(ctx, relID); getErr != nil {
			return models.FollowerRelationship{}, getErr
		}
		return models.FollowerRelationship{}, apperr.New(apperr.Conflict, "follow request already decided")
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	if to.Member() {
		s.bumpFollowerCount(ctx, rel.OrganizationID, 1)
	}
	return rel, nil
}

// Unfollow moves a FOLLOWER/ADMIN to NOT_FOLLOWER, keeping the record.
// Unfollowing when not a member is an idempotent no-op.
func (s *Store) Unfollow(ctx context.Context, userID, orgID primitive.ObjectID) (models.FollowerRelationship, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rel models.FollowerRelationship
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "organization_id": orgID, "state": bson.M{"$in": memberStates}},
		bson.M{"$set": bson.M{"state": models.StateNotFollower}},
		after).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.Get(ctx, userID, orgID)
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	s.bumpFollowerCount(ctx, orgID, -1)
	return rel, nil
}

// SetAdmin grants (FOLLOWER→ADMIN) or revokes (ADMIN→FOLLOWER) admin
// rights for targetID on orgID. actorID is recorded in the audit fields.
//
// There is intentionally no guard against an organization's last admin
// revoking their own rights; the source system allows it and the gap is
// preserved as a known limitation.
func (s *Store) SetAdmin(ctx context.Context, orgID, targetID, actorID primitive.ObjectID, grant bool) (models.FollowerRelationship, error) {
	from, to := models.StateFollower, models.StateAdmin
	if !grant {
		from, to = models.StateAdmin, models.StateFollower
	}
	now := time.Now().UTC()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rel models.FollowerRelationship
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": targetID, "organization_id": orgID, "state": from},
		bson.M{"$set": bson.M{
			"state":            to,
			"approval_user_id": actorID,
			"approval_date":    now,
		}},
		after).Decode(&rel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, getErr := s.Get(ctx, targetID, orgID)
		if getErr != nil {
			return models.FollowerRelationship{}, getErr
		}
		return models.FollowerRelationship{}, apperr.Newf(apperr.Conflict,
			"user is %s, not %s", existing.State, from)
	}
	if err != nil {
		return models.FollowerRelationship{}, err
	}
	return rel, nil
}

// IsAdmin reports whether userID holds the ADMIN state for orgID.
func (s *Store) IsAdmin(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"user_id": userID, "organization_id": orgID, "state": models.StateAdmin,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsMember reports whether userID is FOLLOWER or ADMIN of orgID.
func (s *Store) IsMember(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"user_id": userID, "organization_id": orgID, "state": bson.M{"$in": memberStates},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForOrg returns a page of relationships for an organization.
// Admin view: pending first, then admins, then followers (so moderators
// see the queue on top). Member view: only FOLLOWER/ADMIN, newest first;
// pending and rejected requests are not disclosed to non-admins.
func (s *Store) ListForOrg(ctx context.Context, orgID primitive.ObjectID, adminView bool, rng paging.Range) ([]models.FollowerRelationship, error) {
	if !adminView {
		opts := options.Find().
			SetSort(bson.D{{Key: "follow_date", Value: -1}}).
			SetSkip(rng.Skip).SetLimit(rng.Limit)
		cur, err := s.c.Find(ctx, bson.M{
			"organization_id": orgID, "state": bson.M{"$in": memberStates},
		}, opts)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		var rels []models.FollowerRelationship
		if err := cur.All(ctx, &rels); err != nil {
			return nil, err
		}
		return rels, nil
	}

	// Admin view needs the pending→admin→follower ordering, which is a
	// computed rank, so this one is an aggregation.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"organization_id": orgID,
			"state": bson.M{"$in": []models.FollowState{
				models.StatePending, models.StateAdmin, models.StateFollower,
			}},
		}}},
		{{Key: "$addFields", Value: bson.M{"state_rank": bson.M{"$switch": bson.M{
			"branches": bson.A{
				bson.M{"case": bson.M{"$eq": bson.A{"$state", models.StatePending}}, "then": 0},
				bson.M{"case": bson.M{"$eq": bson.A{"$state", models.StateAdmin}}, "then": 1},
			},
			"default": 2,
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "state_rank", Value: 1}, {Key: "follow_date", Value: -1}}}},
		{{Key: "$skip", Value: rng.Skip}},
		{{Key: "$limit", Value: rng.Limit}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rels []models.FollowerRelationship
	if err := cur.All(ctx, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// ListAudience returns every member-state relationship for an
// organization: the push-notification audience. Pending and rejected
// users are never notified.
func (s *Store) ListAudience(ctx context.Context, orgID primitive.ObjectID) ([]models.FollowerRelationship, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"organization_id": orgID, "state": bson.M{"$in": memberStates},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rels []models.FollowerRelationship
	if err := cur.All(ctx, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// ListAdminUserIDs returns the user IDs holding ADMIN for orgID.
func (s *Store) ListAdminUserIDs(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"organization_id": orgID, "state": models.StateAdmin},
		options.Find().SetProjection(bson.M{"user_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			UserID primitive.ObjectID `bson:"user_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.UserID)
	}
	return ids, cur.Err()
}

// ListMemberOrgIDs returns the organizations userID follows (FOLLOWER
// or ADMIN); the basis of the feed and the "clubs I follow" list.
func (s *Store) ListMemberOrgIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "state": bson.M{"$in": memberStates}},
		options.Find().SetProjection(bson.M{"organization_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			OrganizationID primitive.ObjectID `bson:"organization_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.OrganizationID)
	}
	return ids, cur.Err()
}

// bumpFollowerCount adjusts the organization's denormalized counter.
// The relationship write has already committed, so a counter failure is
// logged rather than surfaced; the count can drift, the state cannot.
func (s *Store) bumpFollowerCount(ctx context.Context, orgID primitive.ObjectID, delta int) {
	_, err := s.orgs.UpdateByID(ctx, orgID, bson.M{"$inc": bson.M{"follower_count": delta}})
	if err != nil {
		zap.L().Warn("follower_count update failed",
			zap.String("organization_id", orgID.Hex()),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}
