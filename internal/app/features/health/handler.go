// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/status"
	statsstore "github.com/dalemusser/guildhub/internal/app/store/stats"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Stats  *statsstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Stats:  statsstore.New(db),
		Log:    logger,
	}
}

type healthResponse struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	Message  string     `json:"message,omitempty"`
	Error    string     `json:"error,omitempty"`
	Bot      *botHealth `json:"bot,omitempty"`
}

// botHealth is informational; a silent bot does not fail the check since
// the dashboard keeps accepting work while it is down.
type botHealth struct {
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "bot":{"online":true,"lastSeen":"…"} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		httpjson.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	if st, err := status.Load(ctx, h.Stats, time.Now().UTC()); err == nil {
		resp.Bot = &botHealth{Online: st.Online, LastSeen: st.LastSeen}
	} else {
		h.Log.Warn("health-check: bot status unavailable", zap.Error(err))
	}

	httpjson.OK(w, resp)
}
