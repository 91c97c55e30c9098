// internal/app/store/reactionroles/reactionrolestore.go
package reactionrolestore

import (
	"context"
	"errors"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("reaction role not found")

// Store reads the reaction_roles collection. The roles field may have been
// written as a JSON string by older clients; models.EmojiRoles accepts both.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollReactionRoles)}
}

// List returns a guild's reaction roles, newest first.
func (s *Store) List(ctx context.Context, guildID string) ([]models.ReactionRole, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ReactionRole, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, guildID string, id primitive.ObjectID) (models.ReactionRole, error) {
	var rr models.ReactionRole
	err := s.c.FindOne(ctx, bson.M{"_id": id, "guildId": guildID}).Decode(&rr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rr, ErrNotFound
	}
	return rr, err
}

// ByMessage finds the reaction role posted as messageID. The bot uses this
// lookup on every reaction event.
func (s *Store) ByMessage(ctx context.Context, guildID, messageID string) (models.ReactionRole, error) {
	var rr models.ReactionRole
	err := s.c.FindOne(ctx, bson.M{"guildId": guildID, "messageId": messageID}).Decode(&rr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rr, ErrNotFound
	}
	return rr, err
}
