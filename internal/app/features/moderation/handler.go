// internal/app/features/moderation/handler.go
package moderation

import (
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	logstore "github.com/dalemusser/guildhub/internal/app/store/logs"
	memberstore "github.com/dalemusser/guildhub/internal/app/store/members"
	moderationstore "github.com/dalemusser/guildhub/internal/app/store/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler hands kick and ban requests to the bot. There is no read-back:
// a queued request either disappears from the queue or it does not.
type Handler struct {
	Moderation *moderationstore.Store
	Members    *memberstore.Store
	Logs       *logstore.Store
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Moderation: moderationstore.New(db, logger),
		Members:    memberstore.New(db),
		Logs:       logstore.New(db),
		ErrLog:     errLog,
		Log:        logger,
	}
}

type actionRequest struct {
	TargetUserID   string                `json:"targetUserId"`
	TargetUsername string                `json:"targetUsername"`
	ActionType     models.ModerationType `json:"actionType"`
	Reason         string                `json:"reason"`
}

// HandleQueue handles POST /. The initiator is always the signed-in user.
// A blank username is filled from the member directory when possible.
func (h *Handler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, actorName, _ := authz.UserCtx(r)

	var req actionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode moderation request failed", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "moderation.queue")
	defer cancel()

	a := models.ModerationAction{
		GuildID:        guildID,
		TargetUserID:   strings.TrimSpace(req.TargetUserID),
		TargetUsername: strings.TrimSpace(req.TargetUsername),
		ActionType:     models.ModerationType(strings.ToLower(string(req.ActionType))),
		Reason:         htmlsanitize.PlainText(req.Reason),
		InitiatorID:    actor,
	}
	if a.TargetUsername == "" && a.TargetUserID != "" {
		if m, err := h.Members.Get(ctx, guildID, a.TargetUserID); err == nil {
			a.TargetUsername = m.Username
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Warn("member lookup failed", zap.String("guild_id", guildID), zap.Error(err))
		}
	}

	if err := h.Moderation.Queue(ctx, a); err != nil {
		if errors.Is(err, inputval.ErrValidation) {
			h.ErrLog.LogBadRequest(w, r, "invalid moderation request", err, "")
			return
		}
		h.ErrLog.LogServerError(w, r, "queue moderation failed", err, "The request could not be queued. Please try again.")
		return
	}
	h.Log.Info("moderation queued",
		zap.String("guild_id", guildID),
		zap.String("action", string(a.ActionType)),
		zap.String("target_id", a.TargetUserID),
		zap.String("initiator", actorName))
	httpjson.Write(w, http.StatusAccepted, map[string]any{"queued": true})
}

// ServePending handles GET /pending.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "moderation.pending")
	defer cancel()

	n, err := h.Moderation.Pending(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pending moderation failed", err, "")
		return
	}
	httpjson.OK(w, map[string]any{"pending": n})
}

// ServeRelated handles GET /related?userId=&at=. It lists audit entries
// about the member near the given time (RFC 3339, default now). These are
// only possibly related to a request.
func (h *Handler) ServeRelated(w http.ResponseWriter, r *http.Request) {
	userID := query.Get(r, "userId")
	if userID == "" {
		h.ErrLog.LogBadRequest(w, r, "missing userId", errors.New("userId is required"), "")
		return
	}
	at := time.Now().UTC()
	if raw := query.Get(r, "at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad at", err, "at must be an RFC 3339 time.")
			return
		}
		at = t
	}
	a := models.ModerationAction{GuildID: authz.GuildID(r), TargetUserID: userID}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "moderation.related")
	defer cancel()

	entries, err := h.Logs.AuditMatching(ctx, moderationstore.CorrelationWindow(a, at, moderationstore.DefaultCorrelationWindow))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load related audit entries failed", err, "")
		return
	}
	httpjson.OK(w, map[string]any{"entries": entries})
}
