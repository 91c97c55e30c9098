// internal/app/store/logs/logstore.go
package logstore

import (
	"context"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps every log listing.
const ListLimit = 100

// Store reads audit_logs and command_logs. Both are append-only and
// written by the bot.
type Store struct {
	audit    *mongo.Collection
	commands *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		audit:    db.Collection(models.CollAuditLogs),
		commands: db.Collection(models.CollCommandLogs),
	}
}

func newestFirst() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(ListLimit)
}

// Audit returns the newest audit entries for a guild, optionally limited
// to one entry type.
func (s *Store) Audit(ctx context.Context, guildID string, typ models.LogType) ([]models.AuditLogEntry, error) {
	filter := bson.M{"guildId": guildID}
	if typ != "" {
		filter["type"] = typ
	}
	return s.AuditMatching(ctx, filter)
}

// AuditMatching runs an arbitrary audit filter, newest first. It backs the
// moderation correlation view.
func (s *Store) AuditMatching(ctx context.Context, filter bson.M) ([]models.AuditLogEntry, error) {
	cur, err := s.audit.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.AuditLogEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Commands returns the newest command invocations for a guild.
func (s *Store) Commands(ctx context.Context, guildID string) ([]models.CommandLogEntry, error) {
	cur, err := s.commands.Find(ctx, bson.M{"guildId": guildID}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.CommandLogEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
