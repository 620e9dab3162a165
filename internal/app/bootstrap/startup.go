// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	auditstore "github.com/dalemusser/volunteerhub/internal/app/store/audit"
	notificationstore "github.com/dalemusser/volunteerhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/workers"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Background goroutines started during boot and stopped in Shutdown.
var (
	workersMu    sync.Mutex
	cleanup      *workers.NotificationCleanup
	writeLimiter *ratelimit.Limiter
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Reconcile: appCfg.TimeoutReconcile})
	tc := timeouts.Current()
	logger.Info("request timeouts",
		zap.Duration("short", tc.Short),
		zap.Duration("long", tc.Long),
		zap.Duration("reconcile", tc.Reconcile),
	)

	audit := newAuditLogger(appCfg, deps, logger)

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, audit, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	if appCfg.NotificationCleanupInterval > 0 {
		w := workers.NewNotificationCleanup(
			notificationstore.New(deps.MongoDatabase),
			audit,
			logger,
			appCfg.NotificationCleanupInterval,
			appCfg.NotificationRetention,
		)
		w.Start()
		workersMu.Lock()
		cleanup = w
		workersMu.Unlock()
	}
	return nil
}

func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{
		Matching: appCfg.AuditLogMatching,
		Admin:    appCfg.AuditLogAdmin,
	})
}

// ensureAdmin makes sure the user with email exists and is an active admin.
// A missing user is created with the email's local part as username.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, audit *auditlog.Logger, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		name := email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
		created, cerr := users.Create(ctx, models.User{Name: name, Email: email, Role: models.RoleAdmin})
		if cerr != nil {
			return cerr
		}
		logger.Info("created admin user", zap.String("email", created.Email))
		audit.AdminEnsured(ctx, created.ID, created.Email, "created")
		return nil
	case err != nil:
		return err
	}

	if u.Role == models.RoleAdmin && u.Status == models.StatusActive {
		return nil
	}
	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("promoted user to admin", zap.String("email", u.Email), zap.String("previous_role", u.Role))
	audit.AdminEnsured(ctx, u.ID, u.Email, "promoted")
	return nil
}
