// internal/app/system/workers/postnotify.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/push"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// The dispatcher depends on narrow read interfaces rather than the
// concrete stores so its batch logic can be tested with fakes.

type postSource interface {
	ScanForNotification(ctx context.Context, now time.Time) ([]models.Post, error)
	MarkNotified(ctx context.Context, postID primitive.ObjectID) error
}

type audienceSource interface {
	ListAudience(ctx context.Context, orgID primitive.ObjectID) ([]models.FollowerRelationship, error)
}

type deviceSource interface {
	ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Device, error)
}

type orgSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error)
}

// PostNotify is a background worker that fans approved posts out to
// their audience's devices as push notifications. Each tick scans for
// approved, visible, not-yet-notified posts; a post is marked notified
// after a delivered fanout so a crash or outage mid-batch leaves the
// remaining posts eligible for the next pass.
type PostNotify struct {
	posts    postSource
	audience audienceSource
	devices  deviceSource
	orgs     orgSource
	sender   push.Sender
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// Report summarizes one dispatch pass.
type Report struct {
	Scanned int
	Sent    int
	Failed  int
}

func NewPostNotify(posts postSource, audience audienceSource, devices deviceSource, orgs orgSource, sender push.Sender, logger *zap.Logger, interval time.Duration) *PostNotify {
	return &PostNotify{
		posts:    posts,
		audience: audience,
		devices:  devices,
		orgs:     orgs,
		sender:   sender,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background dispatch loop.
func (w *PostNotify) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("post notification worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PostNotify) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("post notification worker stopped")
}

func (w *PostNotify) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			rep, err := w.RunOnce(ctx, time.Now().UTC())
			cancel()
			if err != nil {
				w.log.Error("post notification pass failed", zap.Error(err))
				continue
			}
			if rep.Scanned > 0 {
				w.log.Info("post notifications dispatched",
					zap.Int("scanned", rep.Scanned),
					zap.Int("sent", rep.Sent),
					zap.Int("failed", rep.Failed))
			}
		}
	}
}

// RunOnce performs a single dispatch pass. A post is marked notified
// only when its fanout reached at least one device, or there was
// nothing to deliver; a resolution failure or a fanout where every
// delivery failed leaves the flag unset so the next pass retries.
// Marking on partial per-device failure is deliberate: the healthy
// part of the audience must not be notified twice.
func (w *PostNotify) RunOnce(ctx context.Context, now time.Time) (Report, error) {
	posts, err := w.posts.ScanForNotification(ctx, now)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	rep.Scanned = len(posts)

	for _, post := range posts {
		sent, failed, err := w.dispatchPost(ctx, post)
		rep.Sent += sent
		rep.Failed += failed
		if err != nil {
			continue
		}
		if sent == 0 && failed > 0 {
			// Total gateway failure; nothing was delivered, so the
			// post stays eligible for the next pass.
			continue
		}

		if err := w.posts.MarkNotified(ctx, post.ID); err != nil {
			w.log.Error("marking post notified failed",
				zap.String("post_id", post.ID.Hex()),
				zap.Error(err))
		}
	}
	return rep, nil
}

// dispatchPost resolves the post's audience and pushes to every device.
// A non-nil error means the audience could not be resolved and nothing
// was attempted.
func (w *PostNotify) dispatchPost(ctx context.Context, post models.Post) (sent, failed int, err error) {
	rels, err := w.audience.ListAudience(ctx, post.OrganizationID)
	if err != nil {
		w.log.Error("audience lookup failed",
			zap.String("post_id", post.ID.Hex()),
			zap.Error(err))
		return 0, 0, err
	}
	if len(rels) == 0 {
		return 0, 0, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(rels))
	for _, rel := range rels {
		userIDs = append(userIDs, rel.UserID)
	}

	devices, err := w.devices.ListForUsers(ctx, userIDs)
	if err != nil {
		w.log.Error("device lookup failed",
			zap.String("post_id", post.ID.Hex()),
			zap.Error(err))
		return 0, 0, err
	}

	orgName := ""
	if org, err := w.orgs.GetByID(ctx, post.OrganizationID); err == nil {
		orgName = org.Name
	}

	for _, dev := range devices {
		note := push.Notification{
			DeliveryID:     push.NewDeliveryID(),
			Token:          dev.Token,
			Platform:       dev.Platform,
			Title:          orgName,
			Body:           post.Title,
			PostID:         post.ID.Hex(),
			OrganizationID: post.OrganizationID.Hex(),
		}
		if err := w.sender.Send(ctx, note); err != nil {
			failed++
			w.log.Warn("push send failed",
				zap.String("delivery_id", note.DeliveryID),
				zap.String("post_id", post.ID.Hex()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, failed, nil
}
