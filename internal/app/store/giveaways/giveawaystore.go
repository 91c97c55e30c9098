// internal/app/store/giveaways/giveawaystore.go
package giveawaystore

import (
	"context"
	"errors"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps the giveaways returned for one guild.
const ListLimit = 100

var ErrNotFound = errors.New("giveaway not found")

// Store reads the giveaways collection. Creates, rerolls and deletes go
// through queue.Producer so the status rules apply.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollGiveaways)}
}

// List returns a guild's giveaways, latest end time first.
func (s *Store) List(ctx context.Context, guildID string) ([]models.Giveaway, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "endsAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(ListLimit)
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Giveaway, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one giveaway scoped to its guild.
func (s *Store) Get(ctx context.Context, guildID string, id primitive.ObjectID) (models.Giveaway, error) {
	var g models.Giveaway
	err := s.c.FindOne(ctx, bson.M{"_id": id, "guildId": guildID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return g, ErrNotFound
	}
	return g, err
}
