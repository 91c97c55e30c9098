// internal/app/store/youtube/youtubestore.go
package youtubestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("youtube subscription not found")

// Store reads and edits youtube_subscriptions. The bot advances the poll
// cursor fields on the same documents, so updates here only ever $set the
// fields the dashboard owns.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollYoutubeSubscriptions)}
}

// Prepare fills derived fields before a subscription is first written.
func Prepare(sub *models.YoutubeSubscription) {
	sub.YoutubeChannelNameCI = text.Fold(sub.YoutubeChannelName)
}

// List returns a guild's subscriptions ordered by channel name.
func (s *Store) List(ctx context.Context, guildID string) ([]models.YoutubeSubscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "youtubeChannelNameCi", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.YoutubeSubscription, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, guildID string, id primitive.ObjectID) (models.YoutubeSubscription, error) {
	var sub models.YoutubeSubscription
	err := s.c.FindOne(ctx, bson.M{"_id": id, "guildId": guildID}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sub, ErrNotFound
	}
	return sub, err
}

// Update writes the dashboard-owned fields of a subscription and returns
// the stored document. Blank messages fall back to the defaults.
func (s *Store) Update(ctx context.Context, sub models.YoutubeSubscription) (models.YoutubeSubscription, error) {
	if err := inputval.Struct(sub); err != nil {
		return sub, err
	}
	if sub.CustomMessage == "" {
		sub.CustomMessage = models.DefaultUploadMessage
	}
	if sub.LiveMessage == "" {
		sub.LiveMessage = models.DefaultLiveMessage
	}

	var out models.YoutubeSubscription
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": sub.ID, "guildId": sub.GuildID},
		bson.M{"$set": bson.M{
			"youtubeChannelId":     sub.YoutubeChannelID,
			"youtubeChannelName":   sub.YoutubeChannelName,
			"youtubeChannelNameCi": text.Fold(sub.YoutubeChannelName),
			"discordChannelId":     sub.DiscordChannelID,
			"mentionRoleId":        sub.MentionRoleID,
			"customMessage":        sub.CustomMessage,
			"liveMessage":          sub.LiveMessage,
			"updatedAt":            time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sub, ErrNotFound
	}
	return out, err
}
