// internal/app/features/logs/handler.go
package logs

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	logstore "github.com/dalemusser/guildhub/internal/app/store/logs"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Logs   *logstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Logs: logstore.New(db), ErrLog: errLog, Log: logger}
}

// ServeAudit handles GET /audit?type=. The type filter is matched
// case-insensitively against the stored upper-case names.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	typ := models.LogType(strings.ToUpper(query.Get(r, "type")))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "logs.audit")
	defer cancel()

	entries, err := h.Logs.Audit(ctx, authz.GuildID(r), typ)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load audit log failed", err, "Unable to load logs.")
		return
	}
	httpjson.OK(w, map[string]any{"entries": entries})
}

// ServeCommands handles GET /commands.
func (h *Handler) ServeCommands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "logs.commands")
	defer cancel()

	entries, err := h.Logs.Commands(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load command log failed", err, "Unable to load logs.")
		return
	}
	httpjson.OK(w, map[string]any{"entries": entries})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/audit", h.ServeAudit)
	r.Get("/commands", h.ServeCommands)
	return r
}
