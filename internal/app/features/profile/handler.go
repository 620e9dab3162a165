// internal/app/features/profile/handler.go
package profile

import (
	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the signed-in user's profile endpoints.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apperrors.ErrorLogger
	Audit  *auditlog.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *apperrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Audit:  audit,
	}
}
