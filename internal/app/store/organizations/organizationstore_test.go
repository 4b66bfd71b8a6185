// internal/app/store/organizations/organizationstore_test.go
package organizationstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/indexes"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"github.com/adityachugh/Announcements-Web/internal/testutil"
)

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	org, err := store.Create(ctx, models.Organization{
		Name:       "  Lincoln High  ",
		Handle:     "Lincoln-High",
		Visibility: "PUBLIC",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.Name != "Lincoln High" {
		t.Errorf("name = %q, want trimmed", org.Name)
	}
	if org.Handle != "lincoln-high" {
		t.Errorf("handle = %q, want lowercased", org.Handle)
	}
	if org.Visibility != models.VisibilityPublic {
		t.Errorf("visibility = %q", org.Visibility)
	}
}

func TestCreate_DuplicateHandle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	store := New(db)
	if _, err := store.Create(ctx, models.Organization{
		Name: "Lincoln High", Handle: "lincoln-high", Visibility: "public",
	}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{
		Name: "Another School", Handle: "LINCOLN-high", Visibility: "public",
	})
	if !errors.Is(err, ErrDuplicateHandle) {
		t.Fatalf("err = %v, want ErrDuplicateHandle", err)
	}
}

func TestCreate_AccessCodeRequiresPrivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	_, err := store.Create(ctx, models.Organization{
		Name: "Lincoln High", Handle: "lincoln-high",
		Visibility: "public", AccessCode: "SECRET1",
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestValidateParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	root := fx.CreateOrganization(ctx, "District", "district")
	mid := fx.CreateChildOrganization(ctx, "Lincoln High", "lincoln-high", root.ID)
	leaf := fx.CreateChildOrganization(ctx, "Chess Club", "chess-club", mid.ID)

	store := New(db)

	if err := store.ValidateParent(ctx, primitive.NewObjectID(), leaf.ID); err != nil {
		t.Errorf("valid parent rejected: %v", err)
	}

	if err := store.ValidateParent(ctx, root.ID, root.ID); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("self-parent err = %v, want Validation", err)
	}

	// Reparenting the root under its own descendant would close a cycle.
	if err := store.ValidateParent(ctx, root.ID, leaf.ID); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("cycle err = %v, want Validation", err)
	}

	if err := store.ValidateParent(ctx, primitive.NewObjectID(), primitive.NewObjectID()); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("missing parent err = %v, want NotFound", err)
	}
}

func TestValidateParent_DepthLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)

	parent := fx.CreateOrganization(ctx, "Root", "org-root")
	for i := 0; i < MaxTreeDepth; i++ {
		parent = fx.CreateChildOrganization(ctx, "Nested", primitive.NewObjectID().Hex(), parent.ID)
	}

	store := New(db)
	err := store.ValidateParent(ctx, primitive.NewObjectID(), parent.ID)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation at depth limit", err)
	}
}

func TestUpdateInfo_PublicClearsAccessCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreatePrivateOrganization(ctx, "Robotics", "robotics", "SECRET1")

	store := New(db)
	public := models.VisibilityPublic
	got, err := store.UpdateInfo(ctx, org.ID, InfoUpdate{Visibility: &public})
	if err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}
	if got.Visibility != models.VisibilityPublic {
		t.Errorf("visibility = %q", got.Visibility)
	}
	if got.AccessCode != "" {
		t.Error("access code survived the switch to public")
	}
}

func TestListChildrenAndDescendants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	root := fx.CreateOrganization(ctx, "District", "district")
	a := fx.CreateChildOrganization(ctx, "Alpha High", "alpha-high", root.ID)
	b := fx.CreateChildOrganization(ctx, "Beta High", "beta-high", root.ID)
	grand := fx.CreateChildOrganization(ctx, "Chess Club", "chess-club", a.ID)

	store := New(db)

	children, err := store.ListChildren(ctx, root.ID, paging.NewRange(0, 50))
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	if children[0].ID != a.ID || children[1].ID != b.ID {
		t.Error("children not sorted by name")
	}

	desc, err := store.ListDescendantIDs(ctx, root.ID)
	if err != nil {
		t.Fatalf("ListDescendantIDs: %v", err)
	}
	want := map[primitive.ObjectID]bool{a.ID: true, b.ID: true, grand.ID: true}
	if len(desc) != len(want) {
		t.Fatalf("descendants = %d, want %d", len(desc), len(want))
	}
	for _, id := range desc {
		if !want[id] {
			t.Errorf("unexpected descendant %s", id.Hex())
		}
	}
}

func TestGetParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	root := fx.CreateOrganization(ctx, "District", "district")
	child := fx.CreateChildOrganization(ctx, "Lincoln High", "lincoln-high", root.ID)

	store := New(db)

	parent, err := store.GetParent(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetParent: %v", err)
	}
	if parent.ID != root.ID {
		t.Errorf("parent = %s, want %s", parent.ID.Hex(), root.ID.Hex())
	}

	if _, err := store.GetParent(ctx, root.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("root GetParent err = %v, want NotFound", err)
	}
}

func TestCreate_BumpsParentChildCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	root := fx.CreateOrganization(ctx, "District", "district")

	store := New(db)
	if _, err := store.Create(ctx, models.Organization{
		Name: "Lincoln High", Handle: "lincoln-high",
		Visibility: "public", ParentID: &root.ID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got models.Organization
	if err := db.Collection("organizations").FindOne(ctx, bson.M{"_id": root.ID}).Decode(&got); err != nil {
		t.Fatalf("reload root: %v", err)
	}
	if got.ChildCount != 1 {
		t.Errorf("child_count = %d, want 1", got.ChildCount)
	}
}
