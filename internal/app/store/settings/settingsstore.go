// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrGuildRequired is returned when a call has no guild id.
var ErrGuildRequired = errors.New("guild id is required")

// Store provides access to the server_settings collection.
// Each guild has exactly one settings document (unique guildId).
type Store struct {
	c        *mongo.Collection
	defaults guildconfig.Defaults
}

// New creates a new settings store that resolves sections over defaults.
func New(db *mongo.Database, defaults guildconfig.Defaults) *Store {
	return &Store{c: db.Collection(models.CollServerSettings), defaults: defaults}
}

// Load returns the resolved settings for a guild, creating the document
// with every section at its default when none exists. It never reports
// not-found.
func (s *Store) Load(ctx context.Context, guildID string) (models.GuildSettings, error) {
	if guildID == "" {
		return models.GuildSettings{}, ErrGuildRequired
	}

	doc, err := s.find(ctx, guildID)
	if err == nil {
		return s.defaults.Resolve(doc), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.GuildSettings{}, err
	}

	// First load: seed the defaults. $setOnInsert plus the unique guildId
	// index makes concurrent first loads converge on one document.
	seed := s.defaults.For(guildID)
	sections, err := guildconfig.EncodeAll(&seed)
	if err != nil {
		return models.GuildSettings{}, err
	}
	now := time.Now().UTC()
	onInsert := bson.M{
		"_id":       primitive.NewObjectID(),
		"guildId":   guildID,
		"createdAt": now,
		"updatedAt": now,
	}
	for k, v := range sections {
		onInsert[k] = v
	}
	_, err = s.c.UpdateOne(ctx,
		bson.M{"guildId": guildID},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true))
	if err != nil && !wafflemongo.IsDup(err) {
		return models.GuildSettings{}, fmt.Errorf("create settings: %w", err)
	}

	doc, err = s.find(ctx, guildID)
	if err != nil {
		return models.GuildSettings{}, err
	}
	return s.defaults.Resolve(doc), nil
}

func (s *Store) find(ctx context.Context, guildID string) (guildconfig.Document, error) {
	var doc guildconfig.Document
	err := s.c.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&doc)
	return doc, err
}

// Save writes all five sections of settings (last write wins) and returns
// the stored view as Load would resolve it.
func (s *Store) Save(ctx context.Context, settings models.GuildSettings) (models.GuildSettings, error) {
	if settings.GuildID == "" {
		return models.GuildSettings{}, ErrGuildRequired
	}
	sections, err := guildconfig.EncodeAll(&settings)
	if err != nil {
		return models.GuildSettings{}, err
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	for k, v := range sections {
		set[k] = v
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	filter := bson.M{"guildId": settings.GuildID}
	opts := options.Update().SetUpsert(true)

	_, err = s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil && wafflemongo.IsDup(err) {
		// Lost an insert race with a concurrent first write; the document
		// exists now, so the retry is a plain update.
		_, err = s.c.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return models.GuildSettings{}, fmt.Errorf("save settings: %w", err)
	}
	return s.Load(ctx, settings.GuildID)
}

// AddRoleReward adds a level reward to the leveling section. A reward for
// a level that already has one is rejected with leveling.ErrDuplicateLevel
// and nothing is written.
func (s *Store) AddRoleReward(ctx context.Context, guildID string, r models.RoleReward) (models.GuildSettings, error) {
	cur, err := s.Load(ctx, guildID)
	if err != nil {
		return models.GuildSettings{}, err
	}
	next, err := leveling.Rewards(cur.Leveling.RoleRewards).Insert(r)
	if err != nil {
		return cur, err
	}
	cur.Leveling.RoleRewards = next
	return s.Save(ctx, cur)
}

// RemoveRoleReward removes the reward for a level. Removing a level with
// no reward is a no-op that still returns the current settings.
func (s *Store) RemoveRoleReward(ctx context.Context, guildID string, level int) (models.GuildSettings, error) {
	cur, err := s.Load(ctx, guildID)
	if err != nil {
		return models.GuildSettings{}, err
	}
	next, removed := leveling.Rewards(cur.Leveling.RoleRewards).Remove(level)
	if !removed {
		return cur, nil
	}
	cur.Leveling.RoleRewards = next
	return s.Save(ctx, cur)
}

// Delete removes a guild's settings document. The next Load recreates it
// from defaults.
func (s *Store) Delete(ctx context.Context, guildID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"guildId": guildID})
	return err
}
