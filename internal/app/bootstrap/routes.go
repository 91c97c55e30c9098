// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	commandsfeature "github.com/dalemusser/guildhub/internal/app/features/commands"
	errorsfeature "github.com/dalemusser/guildhub/internal/app/features/errors"
	giveawaysfeature "github.com/dalemusser/guildhub/internal/app/features/giveaways"
	guildsfeature "github.com/dalemusser/guildhub/internal/app/features/guilds"
	healthfeature "github.com/dalemusser/guildhub/internal/app/features/health"
	leaderboardfeature "github.com/dalemusser/guildhub/internal/app/features/leaderboard"
	logsfeature "github.com/dalemusser/guildhub/internal/app/features/logs"
	membersfeature "github.com/dalemusser/guildhub/internal/app/features/members"
	moderationfeature "github.com/dalemusser/guildhub/internal/app/features/moderation"
	reactionrolesfeature "github.com/dalemusser/guildhub/internal/app/features/reactionroles"
	scheduledfeature "github.com/dalemusser/guildhub/internal/app/features/scheduled"
	sessionfeature "github.com/dalemusser/guildhub/internal/app/features/session"
	settingsfeature "github.com/dalemusser/guildhub/internal/app/features/settings"
	statusfeature "github.com/dalemusser/guildhub/internal/app/features/status"
	youtubefeature "github.com/dalemusser/guildhub/internal/app/features/youtube"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/dalemusser/guildhub/internal/app/system/ratelimit"
	"github.com/dalemusser/guildhub/internal/app/system/reqlog"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed.
//
// Layout:
//
//	/health                        database ping + bot heartbeat
//	/logout                        clear the session cookie
//	/dev/session                   dev only: issue a session
//	/api/me                        current identity
//	/api/status                    bot identity and heartbeat
//	/api/guilds                    servers the user manages
//	/api/guilds/{guildID}/...      per-guild API, guild admins only
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.GuildHubMongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	guard := &submitguard.Guard{}
	limiter := ratelimit.New(appCfg.WriteRatePerMinute, appCfg.WriteBurst)

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))
	// Loads the SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.GuildHubMongoClient, db, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	sessionHandler := sessionfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", sessionfeature.LogoutRoutes(sessionHandler))
	if coreCfg.Env == "dev" {
		logger.Warn("dev session endpoint enabled at /dev/session")
		r.Mount("/dev/session", sessionfeature.DevRoutes(sessionHandler))
	}

	r.Route("/api", func(api chi.Router) {
		api.Mount("/me", sessionfeature.MeRoutes(sessionHandler))

		api.Group(func(pr chi.Router) {
			pr.Use(sessionMgr.RequireSignedIn)

			statusHandler := statusfeature.NewHandler(db, errLog, logger)
			pr.Get("/status", statusHandler.ServeStatus)

			guildsHandler := guildsfeature.NewHandler(db, appCfg.MetadataStaleAfter, errLog, logger)
			pr.Get("/guilds", guildsHandler.ServeGuilds)

			pr.Route("/guilds/{"+authz.GuildParam+"}", func(g chi.Router) {
				g.Use(authz.RequireGuildAccess)
				g.Use(limiter.Writes(writeKey))

				g.Mount("/", guildsfeature.GuildRoutes(guildsHandler))
				g.Mount("/settings", settingsfeature.Routes(settingsfeature.NewHandler(db, guildconfig.Builtin(), errLog, logger)))
				g.Mount("/moderation", moderationfeature.Routes(moderationfeature.NewHandler(db, errLog, logger)))
				g.Mount("/reactionroles", reactionrolesfeature.Routes(reactionrolesfeature.NewHandler(db, guard, errLog, logger)))
				g.Mount("/giveaways", giveawaysfeature.Routes(giveawaysfeature.NewHandler(db, guard, errLog, logger)))
				g.Mount("/scheduled", scheduledfeature.Routes(scheduledfeature.NewHandler(db, guard, errLog, logger)))
				g.Mount("/youtube", youtubefeature.Routes(youtubefeature.NewHandler(db, guard, errLog, logger)))
				g.Mount("/commands", commandsfeature.Routes(commandsfeature.NewHandler(db, guard, errLog, logger)))
				g.Mount("/leaderboard", leaderboardfeature.Routes(leaderboardfeature.NewHandler(db, errLog, logger)))
				g.Mount("/logs", logsfeature.Routes(logsfeature.NewHandler(db, errLog, logger)))
				g.Mount("/members", membersfeature.Routes(membersfeature.NewHandler(db, errLog, logger)))
			})
		})
	})

	return r, nil
}

// writeKey buckets write requests per signed-in user, falling back to the
// client address.
func writeKey(r *http.Request) string {
	if id, _, ok := authz.UserCtx(r); ok {
		return "user:" + id
	}
	return "ip:" + ratelimit.ClientIP(r)
}
