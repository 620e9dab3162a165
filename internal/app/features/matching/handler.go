// internal/app/features/matching/handler.go
package matching

import (
	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the matching endpoints. Reconciler must be shared across
// requests so overlapping runs for one event are refused.
type Handler struct {
	DB         *mongo.Database
	Dir        *directory.Directory
	Reconciler *reconcile.Reconciler
	Log        *zap.Logger
	ErrLog     *apperrors.ErrorLogger
	Audit      *auditlog.Logger
	Metrics    *metrics.Collector
}

// NewHandler constructs a Handler. audit and m may be nil.
func NewHandler(db *mongo.Database, dir *directory.Directory, rec *reconcile.Reconciler, errLog *apperrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Dir:        dir,
		Reconciler: rec,
		Log:        logger,
		ErrLog:     errLog,
		Audit:      audit,
		Metrics:    m,
	}
}
