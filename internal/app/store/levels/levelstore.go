// internal/app/store/levels/levelstore.go
package levelstore

import (
	"context"

	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads user_levels. The bot awards XP; the dashboard only ranks.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollUserLevels)}
}

// Leaderboard returns the top leveling.LeaderboardSize members of a guild,
// ranked by level, then XP, then user id.
func (s *Store) Leaderboard(ctx context.Context, guildID string) ([]models.UserLevel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "level", Value: -1}, {Key: "xp", Value: -1}, {Key: "userId", Value: 1}}).
		SetLimit(leveling.LeaderboardSize)
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := make([]models.UserLevel, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	// The query sort only selects the top rows; SortLeaderboard owns the order.
	return leveling.SortLeaderboard(rows), nil
}
