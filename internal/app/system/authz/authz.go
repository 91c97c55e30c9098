// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
)

// GuildParam is the chi URL parameter holding the guild id.
const GuildParam = "guildID"

// UserCtx returns the user's id, name and a found flag.
func UserCtx(r *http.Request) (id, name string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.ID == "" {
		return "", "", false
	}
	return u.ID, u.Name, true
}

// CanManageGuild reports whether the current user may configure guildID.
func CanManageGuild(r *http.Request, guildID string) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.ManagesGuild(guildID)
}

// GuildID returns the guild id from the route.
func GuildID(r *http.Request) string {
	return chi.URLParam(r, GuildParam)
}

// RequireGuildAccess answers 401 for anonymous callers and 403 for users
// who do not manage the guild named in the route.
func RequireGuildAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := UserCtx(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if !CanManageGuild(r, GuildID(r)) {
			httpjson.Error(w, http.StatusForbidden, "you do not manage this server")
			return
		}
		next.ServeHTTP(w, r)
	})
}
