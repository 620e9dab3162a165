// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	auditfeature "github.com/dalemusser/volunteerhub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/volunteerhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/volunteerhub/internal/app/features/health"
	matchingfeature "github.com/dalemusser/volunteerhub/internal/app/features/matching"
	notificationsfeature "github.com/dalemusser/volunteerhub/internal/app/features/notifications"
	profilefeature "github.com/dalemusser/volunteerhub/internal/app/features/profile"
	sessionfeature "github.com/dalemusser/volunteerhub/internal/app/features/session"
	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/metrics"
	"github.com/dalemusser/volunteerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. VolunteerHub is JSON-only: it applies
// session middleware, optionally counts requests for Prometheus, and mounts
// one feature router per API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	var m *metrics.Collector
	if appCfg.MetricsEnabled {
		m = metrics.New(nil, "volunteerhub")
	}

	var limiter *ratelimit.Limiter
	if appCfg.RateLimitWrites > 0 {
		limiter = ratelimit.New(appCfg.RateLimitWrites, time.Minute)
		workersMu.Lock()
		writeLimiter = limiter
		workersMu.Unlock()
	}

	return newRouter(deps, sessionMgr, newAuditLogger(appCfg, deps, logger), m, limiter, logger), nil
}

// newRouter mounts every feature. m and limiter may be nil to disable
// metrics and rate limiting.
func newRouter(deps DBDeps, sessionMgr *auth.SessionManager, audit *auditlog.Logger, m *metrics.Collector, limiter *ratelimit.Limiter, logger *zap.Logger) chi.Router {
	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)

	// One directory serves both the reconciler and the notification fan-out.
	dir := directory.New(db, logger)
	recOpts := []reconcile.Option{}
	if m != nil {
		dir.SetNotificationCounter(m)
		recOpts = append(recOpts, reconcile.WithObserver(m))
	}
	rec := reconcile.New(dir, logger, recOpts...)

	r := chi.NewRouter()
	if m != nil {
		r.Use(m.Middleware)
	}

	// Loads the SessionUser from the cookie or bearer token when present.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	sessionHandler := sessionfeature.NewHandler(sessionMgr, logger)
	limited := r.With(ratelimit.Middleware(limiter))
	limited.Mount("/session", sessionfeature.Routes(sessionHandler, sessionMgr))

	eventsHandler := eventsfeature.NewHandler(db, errLog, audit, m, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	matchingHandler := matchingfeature.NewHandler(db, dir, rec, errLog, audit, m, logger)
	limited.Mount("/matching", matchingfeature.Routes(matchingHandler, sessionMgr))

	notifsHandler := notificationsfeature.NewHandler(db, dir, errLog, audit, logger)
	r.Mount("/notifs", notificationsfeature.Routes(notifsHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, errLog, audit, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	auditHandler := auditfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditfeature.Routes(auditHandler, sessionMgr))

	return r
}
