package orgpolicy

import (
	"net/http/httptest"
	"testing"

	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"github.com/adityachugh/Announcements-Web/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanModeratePost_ParentApprovalEscalatesToParentAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	p := New(followerstore.New(db), organizationstore.New(db))

	parent := fx.CreateOrganization(ctx, "District", "district")
	child := fx.CreateModeratedChildOrganization(ctx, "School", "school", parent.ID)

	parentAdmin := fx.CreateUser(ctx, "Pat", "pat@test.com")
	childAdmin := fx.CreateUser(ctx, "Casey", "casey@test.com")
	outsider := fx.CreateUser(ctx, "Riley", "riley@test.com")
	fx.CreateFollower(ctx, parentAdmin.ID, parent.ID, models.StateAdmin)
	fx.CreateFollower(ctx, childAdmin.ID, child.ID, models.StateAdmin)

	post := fx.CreatePost(ctx, child.ID, childAdmin.ID, "Facility update", models.PostPending)
	post.ApprovalRequired = true

	cases := []struct {
		name string
		user models.User
		want bool
	}{
		{"parent admin", parentAdmin, true},
		{"child admin", childAdmin, true},
		{"outsider", outsider, false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("POST", "/posts/"+post.ID.Hex()+"/decide", nil)
		r = testutil.SignedInAs(r, tc.user.ID, tc.user.Name, tc.user.Email)

		got, err := p.CanModeratePost(ctx, r, post)
		if err != nil {
			t.Fatalf("%s: CanModeratePost: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: CanModeratePost = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanModeratePost_QuietChildDoesNotEscalate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	p := New(followerstore.New(db), organizationstore.New(db))

	parent := fx.CreateOrganization(ctx, "District", "district")
	child := fx.CreateChildOrganization(ctx, "School", "school", parent.ID)

	parentAdmin := fx.CreateUser(ctx, "Pat", "pat@test.com")
	childAdmin := fx.CreateUser(ctx, "Casey", "casey@test.com")
	fx.CreateFollower(ctx, parentAdmin.ID, parent.ID, models.StateAdmin)
	fx.CreateFollower(ctx, childAdmin.ID, child.ID, models.StateAdmin)

	// No parent-approval requirement and no notify-parent request, so
	// the post never escalates and only the child's admins may decide.
	post := fx.CreatePost(ctx, child.ID, childAdmin.ID, "Spirit week", models.PostApproved)

	r := httptest.NewRequest("POST", "/posts/"+post.ID.Hex()+"/decide", nil)
	r = testutil.SignedInAs(r, parentAdmin.ID, parentAdmin.Name, parentAdmin.Email)
	got, err := p.CanModeratePost(ctx, r, post)
	if err != nil {
		t.Fatalf("CanModeratePost: %v", err)
	}
	if got {
		t.Error("parent admin could moderate a non-escalated child post")
	}
}

func TestCanModeratePost_NotifyParentEscalates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	p := New(followerstore.New(db), organizationstore.New(db))

	parent := fx.CreateOrganization(ctx, "District", "district")
	child := fx.CreateChildOrganization(ctx, "School", "school", parent.ID)

	parentAdmin := fx.CreateUser(ctx, "Pat", "pat@test.com")
	fx.CreateFollower(ctx, parentAdmin.ID, parent.ID, models.StateAdmin)

	post := fx.CreatePost(ctx, child.ID, primitive.NewObjectID(), "Field trip", models.PostPending)
	post.NotifyParent = true
	post.ApprovalRequired = true

	r := httptest.NewRequest("POST", "/posts/"+post.ID.Hex()+"/decide", nil)
	r = testutil.SignedInAs(r, parentAdmin.ID, parentAdmin.Name, parentAdmin.Email)
	got, err := p.CanModeratePost(ctx, r, post)
	if err != nil {
		t.Fatalf("CanModeratePost: %v", err)
	}
	if !got {
		t.Error("parent admin could not moderate a notify-parent post")
	}
}
