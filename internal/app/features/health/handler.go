package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler reports whether the process can reach its store.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type status struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latencyMs"`
	Message   string `json:"message,omitempty"`
}

// Serve handles GET /health: 200 with database "connected" when a primary
// ping succeeds, 503 with "disconnected" otherwise.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	took := time.Since(start).Milliseconds()

	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		formutil.WriteJSON(w, http.StatusServiceUnavailable, status{
			Status:    "error",
			Database:  "disconnected",
			LatencyMS: took,
			Message:   "Database unavailable",
		})
		return
	}
	formutil.WriteJSON(w, http.StatusOK, status{Status: "ok", Database: "connected", LatencyMS: took})
}
