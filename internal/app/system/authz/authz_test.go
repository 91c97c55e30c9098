package authz_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func withGuild(r *http.Request, guildID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(authz.GuildParam, guildID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	if _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected no user")
	}
}

func TestUserCtx_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "175928847299117063", Name: "mod"})
	id, name, ok := authz.UserCtx(req)
	if !ok || id != "175928847299117063" || name != "mod" {
		t.Errorf("got %q %q %v", id, name, ok)
	}
}

func TestRequireGuildAccess(t *testing.T) {
	tests := []struct {
		name  string
		user  *auth.SessionUser
		guild string
		want  int
	}{
		{"anonymous", nil, "111111111111111111", http.StatusUnauthorized},
		{"other guild", &auth.SessionUser{ID: "1", Guilds: []string{"222222222222222222"}}, "111111111111111111", http.StatusForbidden},
		{"managed guild", &auth.SessionUser{ID: "1", Guilds: []string{"111111111111111111"}}, "111111111111111111", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := authz.RequireGuildAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := withGuild(httptest.NewRequest("GET", "/api/guilds/x", nil), tt.guild)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
