// internal/app/system/workers/notificationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Purger deletes notifications dismissed before a cutoff.
// notificationstore.Store satisfies it.
type Purger interface {
	PurgeDismissedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanup is a background worker that deletes dismissed
// notifications once they are older than the retention period.
type NotificationCleanup struct {
	purger    Purger
	audit     *auditlog.Logger
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	timeout   time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewNotificationCleanup creates a new notification cleanup worker.
//
// Parameters:
//   - purger: the notification store
//   - audit: audit logger for purge runs that deleted something (may be nil)
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 hour)
//   - retention: how long a dismissed notification is kept (e.g., 30 days)
func NewNotificationCleanup(purger Purger, audit *auditlog.Logger, logger *zap.Logger, interval, retention time.Duration) *NotificationCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationCleanup{
		purger:    purger,
		audit:     audit,
		log:       logger,
		interval:  interval,
		retention: retention,
		timeout:   30 * time.Second,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *NotificationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
// It is safe to call more than once.
func (w *NotificationCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("notification cleanup worker stopped")
	})
}

func (w *NotificationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *NotificationCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	cutoff := w.now().UTC().Add(-w.retention)
	count, err := w.purger.PurgeDismissedBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to purge dismissed notifications", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged dismissed notifications",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
		w.audit.NotificationsPurged(ctx, count)
	}
}
