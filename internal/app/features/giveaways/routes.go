// internal/app/features/giveaways/routes.go
package giveaways

import "github.com/go-chi/chi/v5"

// Routes returns the giveaways router. Mount it under a guild route that
// already enforces guild access.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeOne)
	r.Post("/{id}/reroll", h.HandleReroll)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
