package indexes_test

import (
	"testing"

	"github.com/adityachugh/Announcements-Web/internal/app/system/indexes"
	"github.com/adityachugh/Announcements-Web/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesFollowerIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("followers").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}

	expected := []string{
		"uniq_followers_user_org",
		"idx_followers_org_state_date",
		"idx_followers_user_state",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected index %q to exist on followers collection", name)
		}
	}
}

func TestEnsureAll_CreatesPostIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("posts").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}

	expected := []string{
		"idx_posts_org_status_priority_start",
		"idx_posts_status_org_created",
		"idx_posts_status_pushed_start",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected index %q to exist on posts collection", name)
		}
	}
}

func TestEnsureAll_UniqueFollowerIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert one relationship document
	_, err = db.Collection("followers").InsertOne(ctx, bson.M{
		"user_id":         "u1",
		"organization_id": "o1",
		"state":           "pending",
	})
	if err != nil {
		t.Fatalf("Insert follower failed: %v", err)
	}

	// A second document for the same (user, organization) must fail
	_, err = db.Collection("followers").InsertOne(ctx, bson.M{
		"user_id":         "u1",
		"organization_id": "o1",
		"state":           "follower",
	})
	if err == nil {
		t.Error("expected duplicate key error for unique index on followers(user_id, organization_id)")
	}
}

func TestEnsureAll_UniqueDeviceTokenEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("devices").InsertOne(ctx, bson.M{"token": "tok-1", "user_id": "u1"})
	if err != nil {
		t.Fatalf("Insert device failed: %v", err)
	}

	_, err = db.Collection("devices").InsertOne(ctx, bson.M{"token": "tok-1", "user_id": "u2"})
	if err == nil {
		t.Error("expected duplicate key error for unique index on devices.token")
	}
}
