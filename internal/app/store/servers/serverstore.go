// internal/app/store/servers/serverstore.go
package serverstore

import (
	"context"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps the servers listing.
const ListLimit = 100

// Store reads the servers the bot has joined.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollServers)}
}

// List returns the servers among guildIDs, ordered by name. A nil guildIDs
// lists every server.
func (s *Store) List(ctx context.Context, guildIDs []string) ([]models.Server, error) {
	filter := bson.M{}
	if guildIDs != nil {
		filter["guildId"] = bson.M{"$in": guildIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(ListLimit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Server, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
