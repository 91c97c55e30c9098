// internal/app/features/youtube/handler.go
package youtube

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	youtubestore "github.com/dalemusser/guildhub/internal/app/store/youtube"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves YouTube upload alerts. Subscriptions have no queue; the
// bot polls every running subscription.
type Handler struct {
	Subs   *youtubestore.Store
	Queue  *queue.Producer
	Guard  *submitguard.Guard
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, guard *submitguard.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Subs:   youtubestore.New(db),
		Queue:  queue.NewProducer(db, logger),
		Guard:  guard,
		ErrLog: errLog,
		Log:    logger,
	}
}

type subscriptionRequest struct {
	YoutubeChannelID   string `json:"youtubeChannelId"`
	YoutubeChannelName string `json:"youtubeChannelName"`
	DiscordChannelID   string `json:"discordChannelId"`
	MentionRoleID      string `json:"mentionRoleId"`
	CustomMessage      string `json:"customMessage"`
	LiveMessage        string `json:"liveMessage"`
}

func (req subscriptionRequest) toModel(guildID string) models.YoutubeSubscription {
	return models.YoutubeSubscription{
		GuildID:            guildID,
		YoutubeChannelID:   strings.TrimSpace(req.YoutubeChannelID),
		YoutubeChannelName: htmlsanitize.PlainText(req.YoutubeChannelName),
		DiscordChannelID:   strings.TrimSpace(req.DiscordChannelID),
		MentionRoleID:      strings.TrimSpace(req.MentionRoleID),
		CustomMessage:      htmlsanitize.PlainText(req.CustomMessage),
		LiveMessage:        htmlsanitize.PlainText(req.LiveMessage),
	}
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "youtube.list")
	defer cancel()

	list, err := h.Subs.List(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list youtube subscriptions failed", err, "Unable to load YouTube alerts.")
		return
	}
	httpjson.OK(w, map[string]any{"subscriptions": list})
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, _, _ := authz.UserCtx(r)

	var req subscriptionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode youtube subscription failed", err, "")
		return
	}
	sub := req.toModel(guildID)
	youtubestore.Prepare(&sub)

	created, _, err := submitguard.Do(r.Context(), h.Guard, submitguard.Key(actor, guildID, "youtube", req),
		func(ctx context.Context) (models.Resource, error) {
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), h.Log, "youtube.create")
			defer cancel()
			res, _, err := h.Queue.Enqueue(ctx, &sub)
			return res, err
		})
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid youtube subscription", err, "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create youtube subscription failed", err, "Unable to add the YouTube alert.")
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /{id}. Only dashboard-owned fields change; the
// bot's poll cursor is kept.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad subscription id", err, "")
		return
	}
	var req subscriptionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode youtube subscription failed", err, "")
		return
	}
	sub := req.toModel(authz.GuildID(r))
	sub.ID = id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "youtube.update")
	defer cancel()

	out, err := h.Subs.Update(ctx, sub)
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid youtube subscription", err, "")
		return
	case errors.Is(err, youtubestore.ErrNotFound):
		uierrors.NotFound(w, "YouTube alert")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update youtube subscription failed", err, "")
		return
	}
	httpjson.OK(w, out)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad subscription id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "youtube.delete")
	defer cancel()

	err = h.Queue.Delete(ctx, models.FamilyYoutube, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "YouTube alert")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete youtube subscription failed", err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
