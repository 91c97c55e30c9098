// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"strings"

	"github.com/dalemusser/guildhub/internal/app/system/paging"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads the bot's member directory.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollMembers)}
}

// Query selects one page of members.
type Query struct {
	GuildID string
	Search  string // full-text search on username; blank lists everyone
	Before  string
	After   string
	Limit   int
}

// Page is one page of members ordered by username.
type Page struct {
	Members []models.GuildMember `json:"members"`
	Page    paging.Page          `json:"page"`
}

// List returns a keyset page of a guild's members.
func (s *Store) List(ctx context.Context, q Query) (Page, error) {
	ks := paging.ConfigureKeyset(q.Before, q.After, q.Limit)

	filter := bson.M{"guildId": q.GuildID}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if w := ks.KeysetWindow("username"); w != nil {
		for k, v := range w {
			filter[k] = v
		}
	}

	find := options.Find()
	ks.ApplyToFind(find, "username")
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	rows := make([]models.GuildMember, 0, ks.LimitPlusOne())
	if err := cur.All(ctx, &rows); err != nil {
		return Page{}, err
	}
	rows, page := paging.Finish(rows, ks,
		func(m models.GuildMember) string { return m.Username },
		func(m models.GuildMember) primitive.ObjectID { return m.ID })
	return Page{Members: rows, Page: page}, nil
}

// Get returns one member, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, guildID, userID string) (models.GuildMember, error) {
	var m models.GuildMember
	err := s.c.FindOne(ctx, bson.M{"guildId": guildID, "userId": userID}).Decode(&m)
	return m, err
}
