// internal/app/features/status/handler.go
package status

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	statsstore "github.com/dalemusser/guildhub/internal/app/store/stats"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BotStatus is the bot's identity and heartbeat.
type BotStatus struct {
	Bot      *models.BotInfo `json:"bot"`
	Online   bool            `json:"online"`
	LastSeen *time.Time      `json:"lastSeen,omitempty"`
}

// Load reads bot info and the latest heartbeat. Missing documents are not
// errors; the bot just shows as offline.
func Load(ctx context.Context, stats *statsstore.Store, now time.Time) (BotStatus, error) {
	var st BotStatus
	bot, err := stats.BotInfo(ctx)
	if err != nil {
		return st, err
	}
	st.Bot = bot

	hb, err := stats.SystemStatus(ctx)
	if err != nil {
		return st, err
	}
	if hb != nil {
		st.Online = hb.Online(now)
		seen := hb.LastSeen
		st.LastSeen = &seen
	}
	return st, nil
}

type Handler struct {
	Stats  *statsstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Stats: statsstore.New(db), ErrLog: errLog, Log: logger}
}

// ServeStatus handles GET /api/status.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "status")
	defer cancel()

	st, err := Load(ctx, h.Stats, time.Now().UTC())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load bot status failed", err, "")
		return
	}
	httpjson.OK(w, st)
}
