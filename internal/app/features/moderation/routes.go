// internal/app/features/moderation/routes.go
package moderation

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleQueue)
	r.Get("/pending", h.ServePending)
	r.Get("/related", h.ServeRelated)
	return r
}
