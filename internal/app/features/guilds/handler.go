// internal/app/features/guilds/handler.go
package guilds

import (
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	metadatastore "github.com/dalemusser/guildhub/internal/app/store/metadata"
	moderationstore "github.com/dalemusser/guildhub/internal/app/store/moderation"
	serverstore "github.com/dalemusser/guildhub/internal/app/store/servers"
	statsstore "github.com/dalemusser/guildhub/internal/app/store/stats"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultStaleAfter is how old a metadata snapshot may be before the
// dashboard flags it.
const DefaultStaleAfter = 15 * time.Minute

// Handler serves the guild picker, the per-guild overview and the cached
// channel and role lists.
type Handler struct {
	Servers    *serverstore.Store
	Stats      *statsstore.Store
	Metadata   *metadatastore.Store
	Moderation *moderationstore.Store
	StaleAfter time.Duration
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, staleAfter time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Handler{
		Servers:    serverstore.New(db),
		Stats:      statsstore.New(db),
		Metadata:   metadatastore.New(db),
		Moderation: moderationstore.New(db, logger),
		StaleAfter: staleAfter,
		ErrLog:     errLog,
		Log:        logger,
	}
}
