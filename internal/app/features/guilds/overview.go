// internal/app/features/guilds/overview.go
package guilds

import (
	"net/http"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/status"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Overview is the landing view for one guild.
type Overview struct {
	GuildID           string                `json:"guildId"`
	Stats             models.ServerStats    `json:"stats"`
	Status            status.BotStatus      `json:"status"`
	Metadata          *models.GuildMetadata `json:"metadata"`
	MetadataStale     bool                  `json:"metadataStale"`
	PendingModeration int64                 `json:"pendingModeration"`
}

// ServeOverview handles GET /. Each part is fetched concurrently and a
// failing part falls back to its empty value, so the page always renders.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	guildID := authz.GuildID(r)
	now := time.Now().UTC()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "guilds.overview")
	defer cancel()

	ov := Overview{GuildID: guildID, Stats: models.EmptyStats(guildID)}
	degrade := func(part string, err error) {
		h.Log.Warn("overview part unavailable",
			zap.String("guild_id", guildID),
			zap.String("part", part),
			zap.Error(err))
	}

	// Parts degrade independently; no goroutine returns an error.
	var g errgroup.Group
	g.Go(func() error {
		st, err := h.Stats.Stats(ctx, guildID)
		if err != nil {
			degrade("stats", err)
			return nil
		}
		ov.Stats = st
		return nil
	})
	g.Go(func() error {
		st, err := status.Load(ctx, h.Stats, now)
		if err != nil {
			degrade("status", err)
			return nil
		}
		ov.Status = st
		return nil
	})
	g.Go(func() error {
		md, err := h.Metadata.Get(ctx, guildID)
		if err != nil {
			degrade("metadata", err)
			return nil
		}
		ov.Metadata = md
		return nil
	})
	g.Go(func() error {
		n, err := h.Moderation.Pending(ctx, guildID)
		if err != nil {
			degrade("moderation", err)
			return nil
		}
		ov.PendingModeration = n
		return nil
	})
	_ = g.Wait()

	ov.MetadataStale = ov.Metadata.IsStale(now, h.StaleAfter)
	httpjson.OK(w, ov)
}
