// internal/app/store/metadata/metadatastore.go
package metadatastore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads the server_metadata collection. The bot owns the documents;
// the dashboard only reads them, apart from Publish which exists for
// operator seeding.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollServerMetadata)}
}

// payload is the channels/roles blob stored under "data".
type payload struct {
	Channels []models.Channel `json:"channels" bson:"channels"`
	Roles    []models.Role    `json:"roles" bson:"roles"`
}

type document struct {
	GuildID   string        `bson:"guildId"`
	Data      bson.RawValue `bson:"data"`
	SyncedAt  *time.Time    `bson:"syncedAt,omitempty"`
	UpdatedAt *time.Time    `bson:"updatedAt,omitempty"`
}

// Get returns the latest snapshot for a guild, or nil, nil when the bot has
// not published one. The data field may be a JSON string (older writers)
// or a sub-document; a blob that cannot be parsed yields empty lists.
func (s *Store) Get(ctx context.Context, guildID string) (*models.GuildMetadata, error) {
	var doc document
	err := s.c.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p := parse(doc.Data)
	synced := doc.SyncedAt
	if synced == nil {
		synced = doc.UpdatedAt
	}
	return &models.GuildMetadata{
		GuildID:  doc.GuildID,
		Channels: p.Channels,
		Roles:    p.Roles,
		SyncedAt: synced,
	}, nil
}

func parse(v bson.RawValue) payload {
	var p payload
	switch v.Type {
	case bsontype.String:
		if err := json.Unmarshal([]byte(v.StringValue()), &p); err != nil {
			p = payload{}
		}
	case bsontype.EmbeddedDocument:
		if err := v.Unmarshal(&p); err != nil {
			p = payload{}
		}
	}
	if p.Channels == nil {
		p.Channels = []models.Channel{}
	}
	if p.Roles == nil {
		p.Roles = []models.Role{}
	}
	return p
}

// Publish replaces the snapshot for a guild and stamps syncedAt.
func (s *Store) Publish(ctx context.Context, guildID string, channels []models.Channel, roles []models.Role) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"guildId": guildID},
		bson.M{"$set": bson.M{
			"guildId":  guildID,
			"data":     payload{Channels: channels, Roles: roles},
			"syncedAt": now,
		}},
		options.Update().SetUpsert(true))
	return err
}

// FromDiscord converts a discordgo guild into snapshot lists. Only text
// and announcement channels are kept, since those are the ones settings
// can point at. Roles are ordered by position, highest first, and the
// @everyone role is dropped.
func FromDiscord(g *discordgo.Guild) ([]models.Channel, []models.Role) {
	channels := make([]models.Channel, 0, len(g.Channels))
	for _, c := range g.Channels {
		if c.Type != discordgo.ChannelTypeGuildText && c.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		channels = append(channels, models.Channel{ID: c.ID, Name: c.Name})
	}

	sorted := append([]*discordgo.Role(nil), g.Roles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })
	roles := make([]models.Role, 0, len(sorted))
	for _, r := range sorted {
		if r.ID == g.ID {
			continue
		}
		roles = append(roles, models.Role{ID: r.ID, Name: r.Name, Color: r.Color})
	}
	return channels, roles
}
