// Package notify pushes workflow events to the people they concern:
// organization admins when something needs a decision (a follow
// request, a post waiting for moderation) and back to the affected
// party when the decision lands. Delivery is best effort; a failed
// notification never fails the operation that triggered it.
package notify

import (
	"context"

	"github.com/adityachugh/Announcements-Web/internal/app/system/push"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type adminSource interface {
	ListAdminUserIDs(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type deviceSource interface {
	ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Device, error)
}

// AdminNotifier fans an event out to every device of an organization's
// admins.
type AdminNotifier struct {
	admins  adminSource
	devices deviceSource
	sender  push.Sender
	logger  *zap.Logger
}

func NewAdminNotifier(admins adminSource, devices deviceSource, sender push.Sender, logger *zap.Logger) *AdminNotifier {
	return &AdminNotifier{admins: admins, devices: devices, sender: sender, logger: logger}
}

// PostSubmitted tells an organization's admins that a post arrived.
// For posts escalated to a parent, orgID is the parent. Pending posts
// ask for a decision; already-approved ones are informational.
func (n *AdminNotifier) PostSubmitted(ctx context.Context, orgID primitive.ObjectID, post models.Post) {
	title := "New post"
	if post.Status == models.PostPending {
		title = "Post awaiting approval"
	}
	n.notifyAdmins(ctx, orgID, title, post.Title, post.ID.Hex())
}

// PostDecided tells the post's own organization's admins how the
// moderation decision went.
func (n *AdminNotifier) PostDecided(ctx context.Context, orgID primitive.ObjectID, post models.Post, approved bool) {
	title := "Post rejected"
	if approved {
		title = "Post approved"
	}
	n.notifyAdmins(ctx, orgID, title, post.Title, post.ID.Hex())
}

// FollowRequested tells an organization's admins that a user asked to
// follow.
func (n *AdminNotifier) FollowRequested(ctx context.Context, orgID primitive.ObjectID, userName string) {
	n.notifyAdmins(ctx, orgID, "New follow request", userName, "")
}

// FollowDecided tells the requesting user how their follow request was
// decided, on every device they registered.
func (n *AdminNotifier) FollowDecided(ctx context.Context, orgID primitive.ObjectID, orgName string, userID primitive.ObjectID, approved bool) {
	title := "Follow request declined"
	if approved {
		title = "Follow request approved"
	}

	devices, err := n.devices.ListForUsers(ctx, []primitive.ObjectID{userID})
	if err != nil {
		n.logger.Warn("device lookup for notification failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		return
	}
	n.sendToDevices(ctx, devices, title, orgName, "", orgID)
}

func (n *AdminNotifier) notifyAdmins(ctx context.Context, orgID primitive.ObjectID, title, body, postID string) {
	adminIDs, err := n.admins.ListAdminUserIDs(ctx, orgID)
	if err != nil {
		n.logger.Warn("admin lookup for notification failed",
			zap.String("organization_id", orgID.Hex()),
			zap.Error(err))
		return
	}
	if len(adminIDs) == 0 {
		return
	}

	devices, err := n.devices.ListForUsers(ctx, adminIDs)
	if err != nil {
		n.logger.Warn("device lookup for notification failed",
			zap.String("organization_id", orgID.Hex()),
			zap.Error(err))
		return
	}
	n.sendToDevices(ctx, devices, title, body, postID, orgID)
}

func (n *AdminNotifier) sendToDevices(ctx context.Context, devices []models.Device, title, body, postID string, orgID primitive.ObjectID) {
	for _, dev := range devices {
		note := push.Notification{
			DeliveryID:     push.NewDeliveryID(),
			Token:          dev.Token,
			Platform:       dev.Platform,
			Title:          title,
			Body:           body,
			PostID:         postID,
			OrganizationID: orgID.Hex(),
		}
		if err := n.sender.Send(ctx, note); err != nil {
			n.logger.Warn("notification send failed",
				zap.String("delivery_id", note.DeliveryID),
				zap.String("organization_id", orgID.Hex()),
				zap.Error(err))
		}
	}
}
