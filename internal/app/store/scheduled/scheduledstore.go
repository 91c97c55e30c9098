// internal/app/store/scheduled/scheduledstore.go
package scheduledstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/lifecycle"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("scheduled message not found")

// Store reads and edits the scheduled_messages collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollScheduledMessages)}
}

// List returns a guild's scheduled messages, latest next run first.
func (s *Store) List(ctx context.Context, guildID string) ([]models.ScheduledMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nextRun", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ScheduledMessage, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, guildID string, id primitive.ObjectID) (models.ScheduledMessage, error) {
	var m models.ScheduledMessage
	err := s.c.FindOne(ctx, bson.M{"_id": id, "guildId": guildID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return m, ErrNotFound
	}
	return m, err
}

// Update replaces the editable fields of a message and re-arms it: any
// edit puts the message back to pending so the bot schedules it afresh.
// No queue item is written.
func (s *Store) Update(ctx context.Context, m models.ScheduledMessage) (models.ScheduledMessage, error) {
	if m.Repeat == "" {
		m.Repeat = models.RepeatNone
	}
	if err := inputval.Struct(m); err != nil {
		return m, err
	}
	rules, err := lifecycle.For(models.FamilyScheduledMessage)
	if err != nil {
		return m, err
	}
	now := time.Now().UTC()
	schedule := m.Schedule
	if schedule.IsZero() {
		schedule = m.NextRun
	}

	var out models.ScheduledMessage
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": m.ID, "guildId": m.GuildID},
		bson.M{"$set": bson.M{
			"channelId": m.ChannelID,
			"content":   m.Content,
			"schedule":  schedule,
			"repeat":    m.Repeat,
			"nextRun":   m.NextRun,
			"status":    rules.Rearmed,
			"updatedAt": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return m, ErrNotFound
	}
	return out, err
}
