// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

// Fixtures provides helper methods for creating test data. The helpers
// insert documents directly so store behavior under test is not needed
// to arrange state.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return u
}

// CreateOrganization inserts a public root organization.
func (f *Fixtures) CreateOrganization(ctx context.Context, name, handle string) models.Organization {
	f.t.Helper()
	return f.insertOrg(ctx, name, handle, models.VisibilityPublic, "", nil)
}

// CreatePrivateOrganization inserts a private organization. A non-empty
// accessCode makes joining code-gated; an empty one queues join
// requests for admin approval.
func (f *Fixtures) CreatePrivateOrganization(ctx context.Context, name, handle, accessCode string) models.Organization {
	f.t.Helper()
	return f.insertOrg(ctx, name, handle, models.VisibilityPrivate, accessCode, nil)
}

// CreateChildOrganization inserts a public organization under parentID.
func (f *Fixtures) CreateChildOrganization(ctx context.Context, name, handle string, parentID primitive.ObjectID) models.Organization {
	f.t.Helper()
	return f.insertOrg(ctx, name, handle, models.VisibilityPublic, "", &parentID)
}

// CreateModeratedChildOrganization inserts a public organization under
// parentID whose posts must all be approved by the parent's admins.
func (f *Fixtures) CreateModeratedChildOrganization(ctx context.Context, name, handle string, parentID primitive.ObjectID) models.Organization {
	f.t.Helper()
	org := f.insertOrg(ctx, name, handle, models.VisibilityPublic, "", &parentID)
	if _, err := f.db.Collection("organizations").UpdateByID(ctx, org.ID,
		bson.M{"$set": bson.M{"parent_approval_required": true}}); err != nil {
		f.t.Fatalf("mark test organization parent-approval: %v", err)
	}
	org.ParentApprovalRequired = true
	return org
}

func (f *Fixtures) insertOrg(ctx context.Context, name, handle, visibility, accessCode string, parentID *primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Handle:     handle,
		ParentID:   parentID,
		Visibility: visibility,
		AccessCode: accessCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("create test organization: %v", err)
	}
	return org
}

// CreateFollower inserts a follower relationship in the given state.
func (f *Fixtures) CreateFollower(ctx context.Context, userID, orgID primitive.ObjectID, state models.FollowState) models.FollowerRelationship {
	f.t.Helper()

	rel := models.FollowerRelationship{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		OrganizationID: orgID,
		State:          state,
		FollowDate:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("followers").InsertOne(ctx, rel); err != nil {
		f.t.Fatalf("create test follower relationship: %v", err)
	}
	return rel
}

// CreatePost inserts a post in the given status with a display window
// that is currently open.
func (f *Fixtures) CreatePost(ctx context.Context, orgID, authorID primitive.ObjectID, title string, status models.PostStatus) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.Post{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		TitleCI:        text.Fold(title),
		Body:           "fixture body",
		Priority:       1,
		PostStartDate:  now.Add(-time.Hour),
		PostEndDate:    now.Add(24 * time.Hour),
		Status:         status,
		CreatedBy:      authorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("create test post: %v", err)
	}
	return post
}

// CreateDevice inserts a push device for the given user.
func (f *Fixtures) CreateDevice(ctx context.Context, userID primitive.ObjectID, token string) models.Device {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Device{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     token,
		Platform:  models.PlatformIOS,
		CreatedAt: now,
		SeenAt:    now,
	}
	if _, err := f.db.Collection("devices").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("create test device: %v", err)
	}
	return d
}
