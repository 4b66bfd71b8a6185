// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Event types recorded by the moderation audit trail.
const (
	EventFollowApproved = "follow_approved"
	EventFollowRejected = "follow_rejected"
	EventAdminGranted   = "admin_granted"
	EventAdminRevoked   = "admin_revoked"
	EventPostApproved   = "post_approved"
	EventPostRejected   = "post_rejected"
	EventPostDeleted    = "post_deleted"
)

// Event is one moderation action: who did what to which subject, in
// which organization. SubjectID is the acted-on record (relationship,
// post) and may be nil for events without one.
type Event struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	EventType      string              `bson:"event_type"`
	ActorID        primitive.ObjectID  `bson:"actor_id"`
	SubjectID      *primitive.ObjectID `bson:"subject_id,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
	Detail         string              `bson:"detail,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
}

// Logger records moderation events to MongoDB and to structured logs.
// A nil *Logger is a no-op, so handlers and tests can run without one.
type Logger struct {
	c      *mongo.Collection
	zapLog *zap.Logger
}

// New creates an audit Logger writing to the audit_events collection.
func New(db *mongo.Database, zapLog *zap.Logger) *Logger {
	return &Logger{c: db.Collection("audit_events"), zapLog: zapLog}
}

// Record stores the event. The moderated write has already committed
// when Record runs, so a storage failure here is logged, not surfaced.
func (l *Logger) Record(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now().UTC()

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event.EventType),
		zap.String("actor_id", event.ActorID.Hex()),
	}
	if event.SubjectID != nil {
		fields = append(fields, zap.String("subject_id", event.SubjectID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.Detail != "" {
		fields = append(fields, zap.String("detail", event.Detail))
	}
	l.zapLog.Info("audit event", fields...)

	if _, err := l.c.InsertOne(ctx, event); err != nil {
		l.zapLog.Error("failed to store audit event",
			zap.Error(err),
			zap.String("event_type", event.EventType))
	}
}
