// internal/app/features/posts/handler_test.go
package posts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/devices"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/notify"
	"github.com/adityachugh/Announcements-Web/internal/app/system/push"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"github.com/adityachugh/Announcements-Web/internal/testutil"
)

type capturingSender struct {
	sent []push.Notification
}

func (s *capturingSender) Send(_ context.Context, n push.Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

func newTestHandler(db *mongo.Database, sender push.Sender) *Handler {
	logger := zap.NewNop()
	follows := followerstore.New(db)
	orgs := organizationstore.New(db)
	notifier := notify.NewAdminNotifier(follows, devicestore.New(db), sender, logger)
	return NewHandler(poststore.New(db), follows, orgs, orgpolicy.New(follows, orgs), notifier, logger)
}

func TestHandleDecide_PushesOutcomeToOwningOrgAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Robotics Club", "robotics")
	admin := fx.CreateUser(ctx, "Grace", "grace@example.com")
	fx.CreateFollower(ctx, admin.ID, org.ID, models.StateAdmin)
	fx.CreateDevice(ctx, admin.ID, "tok-admin-1")

	post := fx.CreatePost(ctx, org.ID, admin.ID, "Kickoff meeting", models.PostPending)

	sender := &capturingSender{}
	h := newTestHandler(db, sender)

	req := httptest.NewRequest(http.MethodPost, "/posts/"+post.ID.Hex()+"/decide",
		strings.NewReader(`{"approve": true}`))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	req = testutil.SignedInAs(req, admin.ID, admin.Name, admin.Email)
	rec := httptest.NewRecorder()

	h.HandleDecide(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("pushes = %d, want 1 outcome push to the admin device", len(sender.sent))
	}
	note := sender.sent[0]
	if note.Token != "tok-admin-1" {
		t.Errorf("push token = %q", note.Token)
	}
	if note.Title != "Post approved" {
		t.Errorf("push title = %q", note.Title)
	}
	if note.Body != "Kickoff meeting" {
		t.Errorf("push body = %q", note.Body)
	}
}

func TestHandleSubmit_PingsParentAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	parent := fx.CreateOrganization(ctx, "District", "district")
	child := fx.CreateChildOrganization(ctx, "School", "school", parent.ID)

	parentAdmin := fx.CreateUser(ctx, "Pat", "pat@example.com")
	childAdmin := fx.CreateUser(ctx, "Casey", "casey@example.com")
	fx.CreateFollower(ctx, parentAdmin.ID, parent.ID, models.StateAdmin)
	fx.CreateFollower(ctx, childAdmin.ID, child.ID, models.StateAdmin)
	fx.CreateDevice(ctx, parentAdmin.ID, "tok-parent-1")

	sender := &capturingSender{}
	h := newTestHandler(db, sender)

	start := time.Now().UTC().Format(time.RFC3339)
	end := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	body := `{"title": "Bake sale", "body": "Friday", "post_start_date": "` + start + `", "post_end_date": "` + end + `"}`

	req := httptest.NewRequest(http.MethodPost, "/organizations/"+child.ID.Hex()+"/posts",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "id", child.ID.Hex())
	req = testutil.SignedInAs(req, childAdmin.ID, childAdmin.Name, childAdmin.Email)
	rec := httptest.NewRecorder()

	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// The child has no approval requirement, so the post is approved on
	// arrival, but the parent's admins still hear about it.
	if len(sender.sent) != 1 {
		t.Fatalf("pushes = %d, want 1 ping to the parent admin", len(sender.sent))
	}
	note := sender.sent[0]
	if note.Token != "tok-parent-1" {
		t.Errorf("push token = %q", note.Token)
	}
	if note.Title != "New post" {
		t.Errorf("push title = %q, want informational ping for an approved post", note.Title)
	}
}
