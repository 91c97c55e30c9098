// internal/app/features/leaderboard/handler.go
package leaderboard

import (
	"net/http"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	levelstore "github.com/dalemusser/guildhub/internal/app/store/levels"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Levels *levelstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Levels: levelstore.New(db), ErrLog: errLog, Log: logger}
}

// Row is one leaderboard entry with its progress bar.
type Row struct {
	Rank          int               `json:"rank"`
	UserID        string            `json:"userId"`
	Username      string            `json:"username"`
	UserAvatarURL string            `json:"userAvatarUrl"`
	Level         int               `json:"level"`
	XP            int               `json:"xp"`
	Progress      leveling.Progress `json:"progress"`
}

// ServeLeaderboard handles GET /.
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "leaderboard")
	defer cancel()

	levels, err := h.Levels.Leaderboard(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load leaderboard failed", err, "Unable to load the leaderboard.")
		return
	}
	rows := make([]Row, 0, len(levels))
	for i, l := range levels {
		rows = append(rows, Row{
			Rank:          i + 1,
			UserID:        l.UserID,
			Username:      l.Username,
			UserAvatarURL: l.UserAvatarURL,
			Level:         l.Level,
			XP:            l.XP,
			Progress:      leveling.ProgressFor(l.Level, l.XP),
		})
	}
	httpjson.OK(w, map[string]any{"leaderboard": rows})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLeaderboard)
	return r
}
