// internal/app/store/moderation/moderationstore.go
package moderationstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultCorrelationWindow is how far around a queued action the audit log
// is searched for entries about the same member.
const DefaultCorrelationWindow = 10 * time.Minute

// Store writes kick and ban requests to moderation_queue. The bot deletes
// each item once handled; there is no status and no read-back.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{c: db.Collection(models.CollModerationQueue), log: logger}
}

// Queue validates and inserts a moderation request. Success means only
// that the request was recorded; the outcome shows up later in the audit
// log, if at all.
func (s *Store) Queue(ctx context.Context, a models.ModerationAction) error {
	a.TargetUsername = strings.TrimSpace(a.TargetUsername)
	a.Reason = strings.TrimSpace(a.Reason)
	if err := inputval.Struct(a); err != nil {
		return err
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		s.log.Error("queue moderation action failed",
			zap.String("guild_id", a.GuildID),
			zap.String("collection", models.CollModerationQueue),
			zap.String("op", "insert"),
			zap.String("action", string(a.ActionType)),
			zap.Error(err))
		return fmt.Errorf("queue %s: %w", a.ActionType, err)
	}
	return nil
}

// Pending counts requests the bot has not retired yet.
func (s *Store) Pending(ctx context.Context, guildID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"guildId": guildID})
}

// CorrelationWindow builds the audit_logs filter for entries that may
// record the outcome of a: same guild and target, within window either
// side of createdAt. Matches are only "possibly related"; nothing links a
// request to its outcome.
func CorrelationWindow(a models.ModerationAction, createdAt time.Time, window time.Duration) bson.M {
	if window <= 0 {
		window = DefaultCorrelationWindow
	}
	return bson.M{
		"guildId": a.GuildID,
		"userId":  a.TargetUserID,
		"timestamp": bson.M{
			"$gte": createdAt.Add(-window),
			"$lte": createdAt.Add(window),
		},
	}
}
