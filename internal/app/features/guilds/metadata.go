// internal/app/features/guilds/metadata.go
package guilds

import (
	"net/http"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
)

type metadataView struct {
	Channels []models.Channel `json:"channels"`
	Roles    []roleView       `json:"roles"`
	SyncedAt *time.Time       `json:"syncedAt,omitempty"`
	Stale    bool             `json:"stale"`
}

type roleView struct {
	models.Role
	Hex string `json:"hex"`
}

// ServeMetadata handles GET /metadata. A guild the bot has not published
// yet gets empty lists and stale=true rather than an error.
func (h *Handler) ServeMetadata(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "guilds.metadata")
	defer cancel()

	md, err := h.Metadata.Get(ctx, authz.GuildID(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load metadata failed", err, "Unable to load channels and roles.")
		return
	}

	view := metadataView{
		Channels: []models.Channel{},
		Roles:    []roleView{},
		Stale:    md.IsStale(time.Now().UTC(), h.StaleAfter),
	}
	if md != nil {
		view.SyncedAt = md.SyncedAt
		if md.Channels != nil {
			view.Channels = md.Channels
		}
		for _, role := range md.Roles {
			view.Roles = append(view.Roles, roleView{Role: role, Hex: role.HexColor()})
		}
	}
	httpjson.OK(w, view)
}
