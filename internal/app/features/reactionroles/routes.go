// internal/app/features/reactionroles/routes.go
package reactionroles

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Post("/{id}/repost", h.HandleRepost)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
