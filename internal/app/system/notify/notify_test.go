package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/adityachugh/Announcements-Web/internal/app/system/push"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAdmins struct {
	byOrg map[primitive.ObjectID][]primitive.ObjectID
	err   error
}

func (f *fakeAdmins) ListAdminUserIDs(_ context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOrg[orgID], nil
}

type fakeDevices struct {
	byUser map[primitive.ObjectID][]models.Device
}

func (f *fakeDevices) ListForUsers(_ context.Context, userIDs []primitive.ObjectID) ([]models.Device, error) {
	var out []models.Device
	for _, id := range userIDs {
		out = append(out, f.byUser[id]...)
	}
	return out, nil
}

type recordingSender struct {
	sent []push.Notification
}

func (s *recordingSender) Send(_ context.Context, n push.Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

func TestPostSubmitted_PendingAsksForDecision(t *testing.T) {
	parentID := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	sender := &recordingSender{}

	n := NewAdminNotifier(
		&fakeAdmins{byOrg: map[primitive.ObjectID][]primitive.ObjectID{parentID: {admin}}},
		&fakeDevices{byUser: map[primitive.ObjectID][]models.Device{
			admin: {{Token: "tok-1", Platform: models.PlatformIOS}},
		}},
		sender, zap.NewNop())

	post := models.Post{ID: primitive.NewObjectID(), Title: "Car wash", Status: models.PostPending}
	n.PostSubmitted(context.Background(), parentID, post)

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if got := sender.sent[0].Title; got != "Post awaiting approval" {
		t.Errorf("title = %q", got)
	}
	if got := sender.sent[0].Body; got != "Car wash" {
		t.Errorf("body = %q", got)
	}
}

func TestPostSubmitted_ApprovedIsInformational(t *testing.T) {
	parentID := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	sender := &recordingSender{}

	n := NewAdminNotifier(
		&fakeAdmins{byOrg: map[primitive.ObjectID][]primitive.ObjectID{parentID: {admin}}},
		&fakeDevices{byUser: map[primitive.ObjectID][]models.Device{
			admin: {{Token: "tok-1", Platform: models.PlatformIOS}},
		}},
		sender, zap.NewNop())

	post := models.Post{ID: primitive.NewObjectID(), Title: "Results", Status: models.PostApproved}
	n.PostSubmitted(context.Background(), parentID, post)

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if got := sender.sent[0].Title; got != "New post" {
		t.Errorf("title = %q", got)
	}
}

func TestPostDecided_NotifiesOwningOrgAdmins(t *testing.T) {
	orgID := primitive.NewObjectID()
	a1 := primitive.NewObjectID()
	a2 := primitive.NewObjectID()
	sender := &recordingSender{}

	n := NewAdminNotifier(
		&fakeAdmins{byOrg: map[primitive.ObjectID][]primitive.ObjectID{orgID: {a1, a2}}},
		&fakeDevices{byUser: map[primitive.ObjectID][]models.Device{
			a1: {{Token: "tok-1", Platform: models.PlatformIOS}},
			a2: {{Token: "tok-2", Platform: models.PlatformAndroid}},
		}},
		sender, zap.NewNop())

	post := models.Post{ID: primitive.NewObjectID(), Title: "Fundraiser", Status: models.PostRejected}
	n.PostDecided(context.Background(), orgID, post, false)

	if len(sender.sent) != 2 {
		t.Fatalf("sends = %d, want 2 (one per admin device)", len(sender.sent))
	}
	for _, note := range sender.sent {
		if note.Title != "Post rejected" {
			t.Errorf("title = %q", note.Title)
		}
		if note.Body != "Fundraiser" {
			t.Errorf("body = %q", note.Body)
		}
	}
}

func TestFollowDecided_ReachesOnlyRequesterDevices(t *testing.T) {
	orgID := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	bystander := primitive.NewObjectID()
	sender := &recordingSender{}

	n := NewAdminNotifier(
		&fakeAdmins{},
		&fakeDevices{byUser: map[primitive.ObjectID][]models.Device{
			requester: {
				{Token: "tok-r1", Platform: models.PlatformIOS},
				{Token: "tok-r2", Platform: models.PlatformAndroid},
			},
			bystander: {{Token: "tok-b1", Platform: models.PlatformIOS}},
		}},
		sender, zap.NewNop())

	n.FollowDecided(context.Background(), orgID, "Chess Club", requester, true)

	if len(sender.sent) != 2 {
		t.Fatalf("sends = %d, want 2", len(sender.sent))
	}
	for _, note := range sender.sent {
		if note.Token == "tok-b1" {
			t.Error("a bystander's device was notified")
		}
		if note.Title != "Follow request approved" {
			t.Errorf("title = %q", note.Title)
		}
		if note.Body != "Chess Club" {
			t.Errorf("body = %q", note.Body)
		}
	}
}

func TestNotifyAdmins_LookupFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{}
	n := NewAdminNotifier(
		&fakeAdmins{err: errors.New("store unreachable")},
		&fakeDevices{},
		sender, zap.NewNop())

	post := models.Post{ID: primitive.NewObjectID(), Title: "Quiet"}
	n.PostDecided(context.Background(), primitive.NewObjectID(), post, true)

	if len(sender.sent) != 0 {
		t.Fatal("nothing should be sent when the admin lookup fails")
	}
}
