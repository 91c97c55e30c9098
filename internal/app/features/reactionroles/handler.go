// internal/app/features/reactionroles/handler.go
package reactionroles

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	reactionrolestore "github.com/dalemusser/guildhub/internal/app/store/reactionroles"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves reaction-role embeds.
type Handler struct {
	Roles  *reactionrolestore.Store
	Queue  *queue.Producer
	Guard  *submitguard.Guard
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, guard *submitguard.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Roles:  reactionrolestore.New(db),
		Queue:  queue.NewProducer(db, logger),
		Guard:  guard,
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList handles GET /. With ?messageId= it returns the one reaction
// role posted as that message.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "reactionroles.list")
	defer cancel()

	if msgID := query.Get(r, "messageId"); msgID != "" {
		rr, err := h.Roles.ByMessage(ctx, guildID, msgID)
		switch {
		case errors.Is(err, reactionrolestore.ErrNotFound):
			uierrors.NotFound(w, "reaction role")
			return
		case err != nil:
			h.ErrLog.LogServerError(w, r, "reaction role by message failed", err, "")
			return
		}
		httpjson.OK(w, map[string]any{"reactionRoles": []models.ReactionRole{rr}})
		return
	}

	list, err := h.Roles.List(ctx, guildID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reaction roles failed", err, "Unable to load reaction roles.")
		return
	}
	httpjson.OK(w, map[string]any{"reactionRoles": list})
}

type createRequest struct {
	ChannelID        string             `json:"channelId"`
	EmbedTitle       string             `json:"embedTitle"`
	EmbedDescription string             `json:"embedDescription"`
	EmbedColor       string             `json:"embedColor"`
	Roles            []models.EmojiRole `json:"roles"`
}

// HandleCreate handles POST /. The embed starts pending with messageId
// "pending" until the bot posts it.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, _, _ := authz.UserCtx(r)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reaction role failed", err, "")
		return
	}
	roles := make(models.EmojiRoles, 0, len(req.Roles))
	for _, er := range req.Roles {
		roles = append(roles, models.EmojiRole{
			Emoji:  strings.TrimSpace(er.Emoji),
			RoleID: strings.TrimSpace(er.RoleID),
		})
	}
	rr := &models.ReactionRole{
		GuildID:          guildID,
		ChannelID:        strings.TrimSpace(req.ChannelID),
		EmbedTitle:       htmlsanitize.PlainText(req.EmbedTitle),
		EmbedDescription: htmlsanitize.PlainText(req.EmbedDescription),
		EmbedColor:       strings.TrimSpace(req.EmbedColor),
		Roles:            roles,
	}

	created, _, err := submitguard.Do(r.Context(), h.Guard, submitguard.Key(actor, guildID, "reaction_role", req),
		func(ctx context.Context) (models.Resource, error) {
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), h.Log, "reactionroles.create")
			defer cancel()
			res, _, err := h.Queue.Enqueue(ctx, rr)
			return res, err
		})
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid reaction role", err, "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create reaction role failed", err, "Unable to create the reaction role.")
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleRepost handles POST /{id}/repost: a sent or failed embed goes back
// to pending so the bot posts it again.
func (h *Handler) HandleRepost(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad reaction role id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "reactionroles.repost")
	defer cancel()

	status, err := h.Queue.ReArm(ctx, models.FamilyReactionRole, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "reaction role")
		return
	case errors.Is(err, queue.ErrConflict):
		uierrors.Conflict(w, "The reaction role changed while reposting. Reload and try again.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "repost reaction role failed", err, "")
		return
	}
	httpjson.OK(w, map[string]any{"id": id, "status": status})
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad reaction role id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "reactionroles.delete")
	defer cancel()

	err = h.Queue.Delete(ctx, models.FamilyReactionRole, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "reaction role")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete reaction role failed", err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
