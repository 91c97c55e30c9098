// internal/app/store/stats/statsstore.go
package statsstore

import (
	"context"
	"errors"

	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads server_stats, bot_info and system_status. All three are
// written by the bot.
type Store struct {
	stats  *mongo.Collection
	bot    *mongo.Collection
	status *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		stats:  db.Collection(models.CollServerStats),
		bot:    db.Collection(models.CollBotInfo),
		status: db.Collection(models.CollSystemStatus),
	}
}

// Stats returns the main stats document for a guild, creating an empty one
// when the bot has not counted anything yet so that the bot's later $inc
// updates have a document to land on.
func (s *Store) Stats(ctx context.Context, guildID string) (models.ServerStats, error) {
	filter := bson.M{"guildId": guildID, "doc_id": models.MainStatsDocID}

	var st models.ServerStats
	err := s.stats.FindOne(ctx, filter).Decode(&st)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.EmptyStats(guildID), err
	}

	empty := models.EmptyStats(guildID)
	_, err = s.stats.UpdateOne(ctx, filter,
		bson.M{"$setOnInsert": bson.M{
			"_id":              primitive.NewObjectID(),
			"memberCount":      0,
			"onlineCount":      0,
			"messagesToday":    0,
			"commandCount":     0,
			"totalWarnings":    0,
			"messagesWeekly":   bson.A{},
			"roleDistribution": bson.A{},
		}},
		options.Update().SetUpsert(true))
	if err != nil && !wafflemongo.IsDup(err) {
		return empty, err
	}
	if err := s.stats.FindOne(ctx, filter).Decode(&st); err != nil {
		return empty, err
	}
	return st, nil
}

// BotInfo returns the bot's identity, or nil when it has never started.
func (s *Store) BotInfo(ctx context.Context) (*models.BotInfo, error) {
	var b models.BotInfo
	err := s.bot.FindOne(ctx, bson.M{}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SystemStatus returns the latest heartbeat, or nil when there is none.
func (s *Store) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	var st models.SystemStatus
	opts := options.FindOne().SetSort(bson.D{{Key: "lastSeen", Value: -1}})
	err := s.status.FindOne(ctx, bson.M{}, opts).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
