// internal/app/features/events/handler.go
package events

import (
	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"github.com/dalemusser/volunteerhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the event endpoints.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *apperrors.ErrorLogger
	Audit   *auditlog.Logger
	Metrics *metrics.Collector
}

// NewHandler constructs a Handler. audit and m may be nil.
func NewHandler(db *mongo.Database, errLog *apperrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Audit:   audit,
		Metrics: m,
	}
}
