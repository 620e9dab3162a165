// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Matching controls logging for assign, unassign and reconcile events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Matching string
	// Admin controls logging for event creation, notifications and profile changes.
	// Same values as Matching.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// stamp copies the caller's address and user agent onto e.
func stamp(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// oidPtr parses a hex id, returning nil when it is not a valid ObjectID.
func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.EventID != nil {
		fields = append(fields, zap.String("event_id", event.EventID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// mode returns the configured destination for a category. Unknown
// categories go everywhere.
func (l *Logger) mode(category string) string {
	switch category {
	case audit.CategoryMatching:
		return l.config.Matching
	case audit.CategoryEvent, audit.CategoryNotification, audit.CategoryAdmin:
		return l.config.Admin
	}
	return "all"
}

// Log records event to zap, MongoDB, both or neither depending on the
// category's mode. A nil Logger discards everything.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	m := l.mode(event.Category)
	if m == "all" || m == "log" {
		l.logToZap(event)
	}
	if m != "all" && m != "db" {
		return
	}
	if err := l.store.Log(ctx, event); err != nil {
		l.zapLog.Error("failed to store audit event",
			zap.Error(err),
			zap.String("event_type", event.EventType),
		)
	}
}

// --- matching ---

// VolunteersAssigned logs a committed assign batch.
func (l *Logger) VolunteersAssigned(ctx context.Context, r *http.Request, actorID, eventID string, volunteerIDs []string) {
	l.batch(ctx, r, audit.EventVolunteersAssigned, actorID, eventID, volunteerIDs)
}

// VolunteersUnassigned logs a committed unassign batch.
func (l *Logger) VolunteersUnassigned(ctx context.Context, r *http.Request, actorID, eventID string, volunteerIDs []string) {
	l.batch(ctx, r, audit.EventVolunteersUnassigned, actorID, eventID, volunteerIDs)
}

func (l *Logger) batch(ctx context.Context, r *http.Request, eventType, actorID, eventID string, volunteerIDs []string) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:  audit.CategoryMatching,
		EventType: eventType,
		ActorID:   oidPtr(actorID),
		EventID:   oidPtr(eventID),
		Success:   true,
		Details: map[string]string{
			"count":         strconv.Itoa(len(volunteerIDs)),
			"volunteer_ids": strings.Join(volunteerIDs, ","),
		},
	}))
}

// ReconcileCommitted logs a reconciliation whose batches all succeeded.
func (l *Logger) ReconcileCommitted(ctx context.Context, r *http.Request, actorID, eventID, runID string, assigned, unassigned int) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:  audit.CategoryMatching,
		EventType: audit.EventReconcileCommitted,
		ActorID:   oidPtr(actorID),
		EventID:   oidPtr(eventID),
		Success:   true,
		Details: map[string]string{
			"run_id":     runID,
			"assigned":   strconv.Itoa(assigned),
			"unassigned": strconv.Itoa(unassigned),
		},
	}))
}

// ReconcileRejected logs a reconciliation aborted before any batch was sent.
func (l *Logger) ReconcileRejected(ctx context.Context, r *http.Request, actorID, eventID, runID, kind, reason string) {
	l.reconcileFailure(ctx, r, audit.EventReconcileRejected, actorID, eventID, runID, kind, reason)
}

// ReconcileFailed logs a reconciliation where at least one batch failed.
func (l *Logger) ReconcileFailed(ctx context.Context, r *http.Request, actorID, eventID, runID, kind, reason string) {
	l.reconcileFailure(ctx, r, audit.EventReconcileFailed, actorID, eventID, runID, kind, reason)
}

func (l *Logger) reconcileFailure(ctx context.Context, r *http.Request, eventType, actorID, eventID, runID, kind, reason string) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:      audit.CategoryMatching,
		EventType:     eventType,
		ActorID:       oidPtr(actorID),
		EventID:       oidPtr(eventID),
		FailureReason: reason,
		Details:       map[string]string{"run_id": runID, "kind": kind},
	}))
}

// --- admin ---

// EventCreated logs a new volunteer event.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, actorID, eventID, name string) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:  audit.CategoryEvent,
		EventType: audit.EventEventCreated,
		ActorID:   oidPtr(actorID),
		EventID:   oidPtr(eventID),
		Success:   true,
		Details:   map[string]string{"name": name},
	}))
}

// NotificationsSent logs a notification fan-out for an event.
func (l *Logger) NotificationsSent(ctx context.Context, r *http.Request, actorID, eventID, notifType string, count int) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:  audit.CategoryNotification,
		EventType: audit.EventNotificationsSent,
		ActorID:   oidPtr(actorID),
		EventID:   oidPtr(eventID),
		Success:   true,
		Details:   map[string]string{"type": notifType, "count": strconv.Itoa(count)},
	}))
}

// NotificationsPurged logs a cleanup run. It has no request or actor.
func (l *Logger) NotificationsPurged(ctx context.Context, deleted int64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryNotification,
		EventType: audit.EventNotificationsPurged,
		Success:   true,
		Details:   map[string]string{"deleted": strconv.FormatInt(deleted, 10)},
	})
}

// ProfileUpdated logs a volunteer saving their profile.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, actorID string) {
	l.Log(ctx, stamp(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProfileUpdated,
		ActorID:   oidPtr(actorID),
		Success:   true,
	}))
}

// AdminEnsured logs the startup admin being created or promoted.
func (l *Logger) AdminEnsured(ctx context.Context, userID primitive.ObjectID, email, action string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminEnsured,
		ActorID:   &userID,
		Success:   true,
		Details:   map[string]string{"email": email, "action": action},
	})
}
