// internal/app/features/commands/handler.go
package commands

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	commandstore "github.com/dalemusser/guildhub/internal/app/store/commands"
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

// Handler serves custom commands. They are plain configuration; the bot
// reads them on demand.
type Handler struct {
	Commands *commandstore.Store
	Guard    *submitguard.Guard
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, guard *submitguard.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Commands: commandstore.New(db),
		Guard:    guard,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type commandRequest struct {
	Command      string `json:"command"`
	Response     string `json:"response"`
	IsEmbed      bool   `json:"isEmbed"`
	EmbedContent string `json:"embedContent"`
}

func (req commandRequest) toModel(guildID string) models.CustomCommand {
	return models.CustomCommand{
		GuildID:      guildID,
		Command:      req.Command,
		Response:     htmlsanitize.PlainText(req.Response),
		IsEmbed:      req.IsEmbed,
		EmbedContent: htmlsanitize.PlainText(req.EmbedContent),
	}
}

// writeErr maps store errors shared by create and update.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, inputval.ErrValidation):
		h.ErrLog.LogBadRequest(w, r, "invalid custom command", err, "")
	case errors.Is(err, commandstore.ErrDuplicateCommand):
		uierrors.Conflict(w, err.Error())
	case errors.Is(err, commandstore.ErrNotFound):
		uierrors.NotFound(w, "command")
	default:
		h.ErrLog.LogServerError(w, r, op+" custom command failed", err, "")
	}
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "commands.list")
	defer cancel()

	list, err := h.Commands.List(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list custom commands failed", err, "Unable to load commands.")
		return
	}
	httpjson.OK(w, map[string]any{"commands": list})
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	actor, _, _ := authz.UserCtx(r)

	var req commandRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode custom command failed", err, "")
		return
	}
	cmd, _, err := submitguard.Do(r.Context(), h.Guard, submitguard.Key(actor, guildID, "command", req),
		func(ctx context.Context) (models.CustomCommand, error) {
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), h.Log, "commands.create")
			defer cancel()
			return h.Commands.Create(ctx, req.toModel(guildID))
		})
	if err != nil {
		h.writeErr(w, r, "create", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, cmd)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad command id", err, "")
		return
	}
	var req commandRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode custom command failed", err, "")
		return
	}
	cmd := req.toModel(authz.GuildID(r))
	cmd.ID = id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "commands.update")
	defer cancel()

	out, err := h.Commands.Update(ctx, cmd)
	if err != nil {
		h.writeErr(w, r, "update", err)
		return
	}
	httpjson.OK(w, out)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad command id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "commands.delete")
	defer cancel()

	if err := h.Commands.Delete(ctx, authz.GuildID(r), id); err != nil {
		h.writeErr(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
