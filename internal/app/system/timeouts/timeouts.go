// Package timeouts holds the deadlines handlers put on database and
// downstream calls.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list queries and report aggregations
//   - Long: writes touching several collections (event create + fan-out)
//   - Reconcile: one full reconciliation (re-read plus both batches)
//
// Values are set once at startup with Configure; zero fields keep defaults.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing      = 2 * time.Second
	DefaultShort     = 5 * time.Second
	DefaultMedium    = 10 * time.Second
	DefaultLong      = 30 * time.Second
	DefaultReconcile = 20 * time.Second
)

// Config holds timeout values. Zero values are ignored by Configure.
type Config struct {
	Ping      time.Duration
	Short     time.Duration
	Medium    time.Duration
	Long      time.Duration
	Reconcile time.Duration
}

func defaults() Config {
	return Config{
		Ping:      DefaultPing,
		Short:     DefaultShort,
		Medium:    DefaultMedium,
		Long:      DefaultLong,
		Reconcile: DefaultReconcile,
	}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(cur)
}

func Ping() time.Duration      { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration     { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration    { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration      { return get(func(c Config) time.Duration { return c.Long }) }
func Reconcile() time.Duration { return get(func(c Config) time.Duration { return c.Reconcile }) }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&cur.Ping, cfg.Ping)
	set(&cur.Short, cfg.Short)
	set(&cur.Medium, cfg.Medium)
	set(&cur.Long, cfg.Long)
	set(&cur.Reconcile, cfg.Reconcile)
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	cur = defaults()
	mu.Unlock()
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Reconcile(), h.Log, "reconcile")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
