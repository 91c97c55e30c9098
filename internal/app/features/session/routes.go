// internal/app/features/session/routes.go
package session

import "github.com/go-chi/chi/v5"

// MeRoutes is mounted under /api/me.
func MeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMe)
	return r
}

// LogoutRoutes is mounted under /logout.
func LogoutRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogout)
	return r
}

// DevRoutes is mounted under /dev/session in the dev environment only.
func DevRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleDevLogin)
	return r
}
