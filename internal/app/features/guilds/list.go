// internal/app/features/guilds/list.go
package guilds

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// ServeGuilds handles GET /api/guilds: the servers the bot has joined that
// the signed-in user may manage.
func (h *Handler) ServeGuilds(w http.ResponseWriter, r *http.Request) {
	ids := []string{}
	if u, ok := auth.CurrentUser(r); ok {
		ids = append(ids, u.Guilds...)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "guilds.list")
	defer cancel()

	servers, err := h.Servers.List(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list servers failed", err, "Unable to load servers.")
		return
	}
	httpjson.OK(w, map[string]any{"guilds": servers})
}
