// internal/app/store/followers/followerstore_test.go
package followerstore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"github.com/adityachugh/Announcements-Web/internal/testutil"
)

func TestRequestFollow_PublicOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")

	store := New(db)
	rel, err := store.RequestFollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("RequestFollow: %v", err)
	}
	if rel.State != models.StateFollower {
		t.Errorf("state = %q, want %q", rel.State, models.StateFollower)
	}

	// Following again is a no-op returning the same relationship.
	again, err := store.RequestFollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("second RequestFollow: %v", err)
	}
	if again.ID != rel.ID {
		t.Errorf("second request created a new relationship")
	}

	var gotOrg models.Organization
	if err := db.Collection("organizations").FindOne(ctx, bson.M{"_id": org.ID}).Decode(&gotOrg); err != nil {
		t.Fatalf("reload org: %v", err)
	}
	if gotOrg.FollowerCount != 1 {
		t.Errorf("follower_count = %d, want 1", gotOrg.FollowerCount)
	}
}

func TestRequestFollow_PrivateOrgGoesPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreatePrivateOrganization(ctx, "Chess Club", "chess-club", "")

	store := New(db)
	rel, err := store.RequestFollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("RequestFollow: %v", err)
	}
	if rel.State != models.StatePending {
		t.Errorf("state = %q, want %q", rel.State, models.StatePending)
	}
}

func TestRequestFollow_CodeGatedOrgRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreatePrivateOrganization(ctx, "Robotics", "robotics", "SECRET1")

	store := New(db)
	_, err := store.RequestFollow(ctx, user.ID, org.ID)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestSubmitAccessCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreatePrivateOrganization(ctx, "Robotics", "robotics", "SECRET1")

	store := New(db)

	// Wrong code leaves the caller pending so admins see the knock.
	rel, accepted, err := store.SubmitAccessCode(ctx, user.ID, org.ID, "nope")
	if err != nil {
		t.Fatalf("SubmitAccessCode wrong: %v", err)
	}
	if accepted {
		t.Error("wrong code was accepted")
	}
	if rel.State != models.StatePending {
		t.Errorf("state after wrong code = %q, want %q", rel.State, models.StatePending)
	}

	// Correct code advances the same record to follower.
	rel, accepted, err = store.SubmitAccessCode(ctx, user.ID, org.ID, "SECRET1")
	if err != nil {
		t.Fatalf("SubmitAccessCode correct: %v", err)
	}
	if !accepted {
		t.Error("correct code was not accepted")
	}
	if rel.State != models.StateFollower {
		t.Errorf("state = %q, want %q", rel.State, models.StateFollower)
	}
}

func TestDecide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	admin := fx.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	org := fx.CreatePrivateOrganization(ctx, "Chess Club", "chess-club", "")
	pending := fx.CreateFollower(ctx, user.ID, org.ID, models.StatePending)

	store := New(db)
	rel, err := store.Decide(ctx, pending.ID, admin.ID, true)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rel.State != models.StateFollower {
		t.Errorf("state = %q, want %q", rel.State, models.StateFollower)
	}
	if rel.ApprovalUserID == nil || *rel.ApprovalUserID != admin.ID {
		t.Error("approval_user_id not recorded")
	}
	if rel.ApprovalDate == nil {
		t.Error("approval_date not recorded")
	}

	// A second decision on the same request conflicts.
	_, err = store.Decide(ctx, pending.ID, admin.ID, false)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("second Decide err = %v, want Conflict", err)
	}
}

func TestDecide_Reject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	admin := fx.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	org := fx.CreatePrivateOrganization(ctx, "Chess Club", "chess-club", "")
	pending := fx.CreateFollower(ctx, user.ID, org.ID, models.StatePending)

	store := New(db)
	rel, err := store.Decide(ctx, pending.ID, admin.ID, false)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rel.State != models.StateRejected {
		t.Errorf("state = %q, want %q", rel.State, models.StateRejected)
	}

	// A rejected user may request again and goes back to pending.
	again, err := store.RequestFollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("RequestFollow after reject: %v", err)
	}
	if again.State != models.StatePending {
		t.Errorf("state after re-request = %q, want %q", again.State, models.StatePending)
	}
	if again.ApprovalUserID != nil {
		t.Error("audit fields should be cleared on revive")
	}
}

func TestUnfollowAndRejoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")

	store := New(db)
	if _, err := store.RequestFollow(ctx, user.ID, org.ID); err != nil {
		t.Fatalf("RequestFollow: %v", err)
	}

	rel, err := store.Unfollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if rel.State != models.StateNotFollower {
		t.Errorf("state = %q, want %q", rel.State, models.StateNotFollower)
	}

	// The record survives; rejoining revives it instead of inserting.
	rejoined, err := store.RequestFollow(ctx, user.ID, org.ID)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if rejoined.ID != rel.ID {
		t.Error("rejoin created a second relationship document")
	}
	if rejoined.State != models.StateFollower {
		t.Errorf("state = %q, want %q", rejoined.State, models.StateFollower)
	}

	n, err := db.Collection("followers").CountDocuments(ctx, bson.M{"user_id": user.ID, "organization_id": org.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("relationship documents = %d, want 1", n)
	}
}

func TestSetAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	actor := fx.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	target := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")
	fx.CreateFollower(ctx, target.ID, org.ID, models.StateFollower)

	store := New(db)
	rel, err := store.SetAdmin(ctx, org.ID, target.ID, actor.ID, true)
	if err != nil {
		t.Fatalf("SetAdmin grant: %v", err)
	}
	if rel.State != models.StateAdmin {
		t.Errorf("state = %q, want %q", rel.State, models.StateAdmin)
	}
	ok, err := store.IsAdmin(ctx, target.ID, org.ID)
	if err != nil || !ok {
		t.Errorf("IsAdmin = %v, %v; want true", ok, err)
	}

	rel, err = store.SetAdmin(ctx, org.ID, target.ID, actor.ID, false)
	if err != nil {
		t.Fatalf("SetAdmin revoke: %v", err)
	}
	if rel.State != models.StateFollower {
		t.Errorf("state after revoke = %q, want %q", rel.State, models.StateFollower)
	}
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	creator := fx.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	org := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")

	store := New(db)
	if err := store.SeedAdmin(ctx, creator.ID, org.ID); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	ok, err := store.IsAdmin(ctx, creator.ID, org.ID)
	if err != nil || !ok {
		t.Errorf("IsAdmin = %v, %v; want true", ok, err)
	}
}

func TestListForOrg_MemberViewHidesPendingAndRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")

	states := []models.FollowState{
		models.StateFollower, models.StateAdmin, models.StatePending,
		models.StateRejected, models.StateNotFollower,
	}
	for _, st := range states {
		u := fx.CreateUser(ctx, "User", primitive.NewObjectID().Hex()+"@example.com")
		fx.CreateFollower(ctx, u.ID, org.ID, st)
	}

	store := New(db)

	member, err := store.ListForOrg(ctx, org.ID, false, paging.NewRange(0, 50))
	if err != nil {
		t.Fatalf("ListForOrg member view: %v", err)
	}
	if len(member) != 2 {
		t.Errorf("member view rows = %d, want 2", len(member))
	}
	for _, rel := range member {
		if !rel.State.Member() {
			t.Errorf("member view leaked state %q", rel.State)
		}
	}

	admin, err := store.ListForOrg(ctx, org.ID, true, paging.NewRange(0, 50))
	if err != nil {
		t.Fatalf("ListForOrg admin view: %v", err)
	}
	if len(admin) != 3 {
		t.Errorf("admin view rows = %d, want 3 (members plus pending)", len(admin))
	}
	if len(admin) > 0 && admin[0].State != models.StatePending {
		t.Errorf("admin view first row state = %q, want pending on top", admin[0].State)
	}
}

func TestListAudienceAndMemberOrgIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	follower := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	pending := fx.CreateUser(ctx, "Alan Turing", "alan@example.com")
	orgA := fx.CreateOrganization(ctx, "Lincoln High", "lincoln-high")
	orgB := fx.CreateOrganization(ctx, "Chess Club", "chess-club")

	fx.CreateFollower(ctx, follower.ID, orgA.ID, models.StateFollower)
	fx.CreateFollower(ctx, follower.ID, orgB.ID, models.StateAdmin)
	fx.CreateFollower(ctx, pending.ID, orgA.ID, models.StatePending)

	store := New(db)

	audience, err := store.ListAudience(ctx, orgA.ID)
	if err != nil {
		t.Fatalf("ListAudience: %v", err)
	}
	if len(audience) != 1 || audience[0].UserID != follower.ID {
		t.Errorf("audience = %v, want only the approved follower", audience)
	}

	orgIDs, err := store.ListMemberOrgIDs(ctx, follower.ID)
	if err != nil {
		t.Fatalf("ListMemberOrgIDs: %v", err)
	}
	if len(orgIDs) != 2 {
		t.Errorf("member org ids = %d, want 2", len(orgIDs))
	}
}
