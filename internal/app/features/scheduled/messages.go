// internal/app/features/scheduled/messages.go
package scheduled

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	scheduledstore "github.com/dalemusser/guildhub/internal/app/store/scheduled"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
)

type messageRequest struct {
	ChannelID string        `json:"channelId"`
	Content   string        `json:"content"`
	NextRun   time.Time     `json:"nextRun"`
	Repeat    models.Repeat `json:"repeat"`
}

func (req messageRequest) toModel(guildID string) models.ScheduledMessage {
	next := req.NextRun.UTC()
	return models.ScheduledMessage{
		GuildID:   guildID,
		ChannelID: strings.TrimSpace(req.ChannelID),
		Content:   htmlsanitize.PlainText(req.Content),
		Schedule:  next,
		NextRun:   next,
		Repeat:    models.Repeat(strings.ToLower(strings.TrimSpace(string(req.Repeat)))),
	}
}

// mustBeFuture rejects a run time that has already passed.
func mustBeFuture(t time.Time) error {
	if t.After(time.Now()) {
		return nil
	}
	verrs := &inputval.Errors{}
	verrs.Add("nextRun", "must be in the future")
	return verrs.Err()
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "scheduled.list")
	defer cancel()

	list, err := h.Messages.List(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list scheduled messages failed", err, "Unable to load scheduled messages.")
		return
	}
	httpjson.OK(w, map[string]any{"scheduledMessages": list})
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, _, _ := authz.UserCtx(r)

	var req messageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode scheduled message failed", err, "")
		return
	}
	if err := mustBeFuture(req.NextRun); err != nil {
		h.ErrLog.LogBadRequest(w, r, "scheduled message in the past", err, "")
		return
	}
	m := req.toModel(guildID)

	created, _, err := submitguard.Do(r.Context(), h.Guard, submitguard.Key(actor, guildID, "scheduled_message", req),
		func(ctx context.Context) (models.Resource, error) {
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), h.Log, "scheduled.create")
			defer cancel()
			res, _, err := h.Queue.Enqueue(ctx, &m)
			return res, err
		})
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid scheduled message", err, "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create scheduled message failed", err, "Unable to schedule the message.")
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /{id}. Any edit re-arms the message.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad scheduled message id", err, "")
		return
	}
	var req messageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode scheduled message failed", err, "")
		return
	}
	if err := mustBeFuture(req.NextRun); err != nil {
		h.ErrLog.LogBadRequest(w, r, "scheduled message in the past", err, "")
		return
	}
	m := req.toModel(authz.GuildID(r))
	m.ID = id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "scheduled.update")
	defer cancel()

	out, err := h.Messages.Update(ctx, m)
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid scheduled message", err, "")
		return
	case errors.Is(err, scheduledstore.ErrNotFound):
		uierrors.NotFound(w, "scheduled message")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update scheduled message failed", err, "")
		return
	}
	httpjson.OK(w, out)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad scheduled message id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "scheduled.delete")
	defer cancel()

	err = h.Queue.Delete(ctx, models.FamilyScheduledMessage, authz.GuildID(r), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		uierrors.NotFound(w, "scheduled message")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete scheduled message failed", err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
