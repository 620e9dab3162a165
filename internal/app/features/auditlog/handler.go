// internal/app/features/auditlog/handler.go
package auditlog

import (
	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the audit trail to administrators.
type Handler struct {
	DB     *mongo.Database
	Store  *audit.Store
	Log    *zap.Logger
	ErrLog *apperrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *apperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  audit.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
