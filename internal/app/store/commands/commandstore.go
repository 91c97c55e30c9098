// internal/app/store/commands/commandstore.go
package commandstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("custom command not found")
	// ErrDuplicateCommand is returned when the guild already has a command
	// with the same name.
	ErrDuplicateCommand = errors.New("a command with this name already exists")
)

// Store manages custom_commands. Commands carry no status: the bot reads
// them on demand, so a write takes effect on the next invocation.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollCustomCommands)}
}

// Normalize lower-cases the name and strips a leading "!" or "/".
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(name, "!/")
	return strings.ToLower(name)
}

// List returns a guild's commands ordered by name.
func (s *Store) List(ctx context.Context, guildID string) ([]models.CustomCommand, error) {
	opts := options.Find().SetSort(bson.D{{Key: "command", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.CustomCommand, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a command. The unique (guildId, command) index decides
// duplicates.
func (s *Store) Create(ctx context.Context, cmd models.CustomCommand) (models.CustomCommand, error) {
	cmd.Command = Normalize(cmd.Command)
	if err := inputval.Struct(cmd); err != nil {
		return cmd, err
	}
	now := time.Now().UTC()
	cmd.ID = primitive.NewObjectID()
	cmd.CreatedAt = now
	cmd.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cmd); err != nil {
		if wafflemongo.IsDup(err) {
			return cmd, ErrDuplicateCommand
		}
		return cmd, err
	}
	return cmd, nil
}

// Update rewrites a command. Renaming onto an existing name is a duplicate.
func (s *Store) Update(ctx context.Context, cmd models.CustomCommand) (models.CustomCommand, error) {
	cmd.Command = Normalize(cmd.Command)
	if err := inputval.Struct(cmd); err != nil {
		return cmd, err
	}

	var out models.CustomCommand
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": cmd.ID, "guildId": cmd.GuildID},
		bson.M{"$set": bson.M{
			"command":      cmd.Command,
			"response":     cmd.Response,
			"isEmbed":      cmd.IsEmbed,
			"embedContent": cmd.EmbedContent,
			"updatedAt":    time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return cmd, ErrNotFound
	case err != nil && wafflemongo.IsDup(err):
		return cmd, ErrDuplicateCommand
	}
	return out, err
}

func (s *Store) Delete(ctx context.Context, guildID string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "guildId": guildID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
