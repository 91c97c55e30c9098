// internal/app/features/settings/handler.go
package settings

import (
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	settingsstore "github.com/dalemusser/guildhub/internal/app/store/settings"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Settings *settingsstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, defaults guildconfig.Defaults, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings: settingsstore.New(db, defaults),
		ErrLog:   errLog,
		Log:      logger,
	}
}

// ServeSettings handles GET /. A guild without a document gets one seeded
// from defaults.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "settings.load")
	defer cancel()

	s, err := h.Settings.Load(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Unable to load settings.")
		return
	}
	httpjson.OK(w, s)
}

// HandleSave handles PUT /. The body replaces all five sections; the
// guild comes from the path, never the body.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var in models.GuildSettings
	if err := httpjson.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode settings failed", err, "")
		return
	}
	in.GuildID = authz.GuildID(r)
	in.Welcome.Message = htmlsanitize.PlainText(in.Welcome.Message)
	in.Goodbye.Message = htmlsanitize.PlainText(in.Goodbye.Message)
	in.Leveling.Message = htmlsanitize.PlainText(in.Leveling.Message)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "settings.save")
	defer cancel()

	out, err := h.Settings.Save(ctx, in)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save settings failed", err, "Unable to save settings.")
		return
	}
	h.Log.Info("settings saved", zap.String("guild_id", in.GuildID))
	httpjson.OK(w, out)
}

// HandleAddReward handles POST /rewards.
func (h *Handler) HandleAddReward(w http.ResponseWriter, r *http.Request) {
	var in models.RoleReward
	if err := httpjson.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reward failed", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "settings.addReward")
	defer cancel()

	out, err := h.Settings.AddRoleReward(ctx, authz.GuildID(r), in)
	switch {
	case errors.Is(err, leveling.ErrDuplicateLevel):
		uierrors.Conflict(w, err.Error())
	case errors.Is(err, leveling.ErrInvalidReward):
		h.ErrLog.LogBadRequest(w, r, "invalid reward", err, "")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "add reward failed", err, "")
	default:
		httpjson.OK(w, out)
	}
}

// HandleRemoveReward handles DELETE /rewards/{level}.
func (h *Handler) HandleRemoveReward(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad reward level", err, "Level must be a number.")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "settings.removeReward")
	defer cancel()

	out, err := h.Settings.RemoveRoleReward(ctx, authz.GuildID(r), level)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "remove reward failed", err, "")
		return
	}
	httpjson.OK(w, out)
}
