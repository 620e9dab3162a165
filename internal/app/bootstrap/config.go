// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest accepted signing key.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for VolunteerHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: VOLUNTEERHUB_MONGO_URI, VOLUNTEERHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "volunteer_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session and token signing key (must be strong in production)"},
	{Name: "session_name", Default: "volunteerhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie and bearer token lifetime"},

	// Audit logging settings
	{Name: "audit_log_matching", Default: "all", Desc: "Assign/reconcile event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Notification cleanup
	{Name: "notification_retention", Default: "720h", Desc: "How long dismissed notifications are kept"},
	{Name: "notification_cleanup_interval", Default: "1h", Desc: "How often dismissed notifications are purged (0 disables)"},

	{Name: "timeout_reconcile", Default: "20s", Desc: "Time budget for one reconcile request"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
	{Name: "rate_limit_writes", Default: 60, Desc: "Write requests per user per minute on /matching and /session (0 disables)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (created or promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config.yaml/json/toml
// files, environment variables (WAFFLE_* for core, VOLUNTEERHUB_* for app)
// and command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "VOLUNTEERHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AuditLogMatching: appValues.String("audit_log_matching"),
		AuditLogAdmin:    appValues.String("audit_log_admin"),

		NotificationRetention:       appValues.Duration("notification_retention", 30*24*time.Hour),
		NotificationCleanupInterval: appValues.Duration("notification_cleanup_interval", time.Hour),

		TimeoutReconcile: appValues.Duration("timeout_reconcile", 20*time.Second),
		MetricsEnabled:   appValues.Bool("metrics_enabled"),
		RateLimitWrites:  appValues.Int("rate_limit_writes"),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d bytes", minSessionKeyLen)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed in production")
	}
	if appCfg.NotificationCleanupInterval > 0 && appCfg.NotificationRetention <= 0 {
		return fmt.Errorf("notification_retention must be positive when cleanup is enabled")
	}
	if appCfg.RateLimitWrites < 0 {
		return fmt.Errorf("rate_limit_writes must not be negative")
	}
	for _, v := range []struct{ key, val string }{
		{"audit_log_matching", appCfg.AuditLogMatching},
		{"audit_log_admin", appCfg.AuditLogAdmin},
	} {
		switch v.val {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", v.key, v.val)
		}
	}
	return nil
}
