// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything specific to VolunteerHub lives
// here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing cookies and bearer tokens
	SessionName   string        // Cookie name (default: volunteerhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie and token lifetime

	// Audit logging: "all", "db", "log" or "off"
	AuditLogMatching string
	AuditLogAdmin    string

	// Notification cleanup worker
	NotificationRetention       time.Duration // dismissed notifications older than this are purged
	NotificationCleanupInterval time.Duration // 0 disables the worker

	// Reconcile request budget (overrides timeouts.DefaultReconcile)
	TimeoutReconcile time.Duration

	// Expose /metrics and count HTTP requests
	MetricsEnabled bool

	// Write requests allowed per user (or IP) per minute on /matching and
	// /session. 0 disables rate limiting.
	RateLimitWrites int

	// Admin bootstrap: the user with this email is created or promoted to
	// admin at startup. Blank disables.
	AdminEmail string
}
