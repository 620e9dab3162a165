// internal/app/features/notifications/handler.go
package notifications

import (
	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	notificationstore "github.com/dalemusser/volunteerhub/internal/app/store/notifications"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the notification endpoints.
type Handler struct {
	DB     *mongo.Database
	Store  *notificationstore.Store
	Dir    *directory.Directory
	Log    *zap.Logger
	ErrLog *apperrors.ErrorLogger
	Audit  *auditlog.Logger
}

// NewHandler constructs a Handler. audit may be nil.
func NewHandler(db *mongo.Database, dir *directory.Directory, errLog *apperrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  notificationstore.New(db),
		Dir:    dir,
		Log:    logger,
		ErrLog: errLog,
		Audit:  audit,
	}
}
