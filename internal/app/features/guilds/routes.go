// internal/app/features/guilds/routes.go
package guilds

import "github.com/go-chi/chi/v5"

// GuildRoutes serves the per-guild read views. The caller mounts it under
// /{guildID} behind authz.RequireGuildAccess.
func GuildRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeOverview)
	r.Get("/metadata", h.ServeMetadata)
	return r
}
