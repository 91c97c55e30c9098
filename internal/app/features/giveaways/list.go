// internal/app/features/giveaways/list.go
package giveaways

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/shared"
	giveawaystore "github.com/dalemusser/guildhub/internal/app/store/giveaways"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "giveaways.list")
	defer cancel()

	list, err := h.Giveaways.List(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list giveaways failed", err, "Unable to load giveaways.")
		return
	}
	httpjson.OK(w, map[string]any{"giveaways": list})
}

// ServeOne handles GET /{id}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad giveaway id", err, "")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "giveaways.get")
	defer cancel()

	g, err := h.Giveaways.Get(ctx, authz.GuildID(r), id)
	switch {
	case errors.Is(err, giveawaystore.ErrNotFound):
		uierrors.NotFound(w, "giveaway")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "get giveaway failed", err, "")
		return
	}
	httpjson.OK(w, g)
}
