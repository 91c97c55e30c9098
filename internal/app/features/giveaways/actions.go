// internal/app/features/giveaways/actions.go
package giveaways

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/lifecycle"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	ChannelID      string    `json:"channelId"`
	Prize          string    `json:"prize"`
	WinnerCount    int       `json:"winnerCount"`
	EndsAt         time.Time `json:"endsAt"`
	RequiredRoleID string    `json:"requiredRoleId"`
}

// HandleCreate handles POST /. The giveaway and its queue item are written
// by the queue producer; the bot posts the giveaway message.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, _, _ := authz.UserCtx(r)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode giveaway failed", err, "")
		return
	}
	if req.WinnerCount == 0 {
		req.WinnerCount = 1
	}
	if !req.EndsAt.After(time.Now()) {
		verrs := &inputval.Errors{}
		verrs.Add("endsAt", "must be in the future")
		h.ErrLog.LogBadRequest(w, r, "giveaway ends in the past", verrs.Err(), "")
		return
	}

	g := &models.Giveaway{
		GuildID:        guildID,
		ChannelID:      strings.TrimSpace(req.ChannelID),
		Prize:          htmlsanitize.PlainText(req.Prize),
		WinnerCount:    req.WinnerCount,
		EndsAt:         req.EndsAt.UTC(),
		RequiredRoleID: strings.TrimSpace(req.RequiredRoleID),
	}

	key := submitguard.Key(actor, guildID, "giveaway", req)
	created, dup, err := submitguard.Do(r.Context(), h.Guard, key, func(ctx context.Context) (models.Resource, error) {
		ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), h.Log, "giveaways.create")
		defer cancel()
		res, _, err := h.Queue.Enqueue(ctx, g)
		return res, err
	})
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid giveaway", err, "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create giveaway failed", err, "Unable to create the giveaway.")
		return
	}
	if dup {
		h.Log.Debug("collapsed duplicate giveaway submit", zap.String("guild_id", guildID))
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleReroll handles POST /{id}/reroll. An ended giveaway goes back to
// running so the bot draws again; a running one is left alone.
func (h *Handler) HandleReroll(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad giveaway id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "giveaways.reroll")
	defer cancel()

	status, err := h.Queue.ReArm(ctx, models.FamilyGiveaway, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "giveaway")
		return
	case errors.Is(err, queue.ErrConflict), errors.Is(err, lifecycle.ErrInvalidTransition):
		uierrors.Conflict(w, "The giveaway changed while rerolling. Reload and try again.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "reroll giveaway failed", err, "Unable to reroll the giveaway.")
		return
	}
	httpjson.OK(w, map[string]any{"id": id, "status": status})
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad giveaway id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "giveaways.delete")
	defer cancel()

	err = h.Queue.Delete(ctx, models.FamilyGiveaway, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "giveaway")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete giveaway failed", err, "Unable to delete the giveaway.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
