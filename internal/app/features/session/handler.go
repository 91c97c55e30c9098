// internal/app/features/session/handler.go
package session

import (
	"net/http"
	"strings"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/snowflake"
	"go.uber.org/zap"
)

// Handler exposes the signed-in identity. Signing in is the identity
// provider's job; DevLogin exists only for local development.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

type meResponse struct {
	IsAuthenticated bool     `json:"isAuthenticated"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Guilds          []string `json:"guilds"`
}

// ServeMe handles GET /api/me. Signed-out callers get isAuthenticated=false
// rather than a 401 so the UI can decide where to send them.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	resp := meResponse{Guilds: []string{}}
	if u, ok := auth.CurrentUser(r); ok {
		resp.IsAuthenticated = true
		resp.ID = u.ID
		resp.Name = u.Name
		resp.Guilds = append(resp.Guilds, u.Guilds...)
	}
	httpjson.OK(w, resp)
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

type devLoginRequest struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Guilds []string `json:"guilds"`
}

// HandleDevLogin handles POST /dev/session. It writes the same cookie the
// identity provider would, for whatever user the body names.
func (h *Handler) HandleDevLogin(w http.ResponseWriter, r *http.Request) {
	var req devLoginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !snowflake.Valid(req.ID) {
		httpjson.Error(w, http.StatusBadRequest, "id must be a Discord user id")
		return
	}
	u := auth.SessionUser{ID: req.ID, Name: strings.TrimSpace(req.Name)}
	for _, g := range req.Guilds {
		if snowflake.Valid(g) {
			u.Guilds = append(u.Guilds, g)
		}
	}
	if err := h.SessionMgr.Login(w, r, u); err != nil {
		h.Log.Error("dev login: save session", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not write session")
		return
	}
	h.Log.Warn("dev session issued", zap.String("user_id", u.ID), zap.Int("guilds", len(u.Guilds)))
	w.WriteHeader(http.StatusNoContent)
}
