// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/guildhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
//
// Validators use validationLevel "moderate" so documents written before a
// schema existed are not rejected on unrelated updates by the bot.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Hand-off queues: the bot trusts these shapes.
	ensure(models.CollModerationQueue, moderationQueueSchema())
	ensure(models.CollReactionRoleQueue, queueItemSchema("reactionRoleId"))
	ensure(models.CollGiveawayQueue, queueItemSchema("giveawayId"))
	ensure(models.CollScheduledMessageQueue, queueItemSchema("scheduledMessageId"))

	// Status-bearing main resources.
	ensure(models.CollReactionRoles, resourceSchema())
	ensure(models.CollGiveaways, resourceSchema())
	ensure(models.CollScheduledMessages, resourceSchema("nextRun"))
	ensure(models.CollYoutubeSubscriptions, resourceSchema("youtubeChannelName", "discordChannelId"))

	ensure(models.CollCustomCommands, customCommandsSchema())

	// Written mostly by the bot; we only make sure they exist.
	ensure(models.CollServerSettings, nil)
	ensure(models.CollServerMetadata, nil)
	ensure(models.CollUserLevels, nil)
	ensure(models.CollMembers, nil)
	ensure(models.CollAuditLogs, nil)
	ensure(models.CollCommandLogs, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func statusEnum() bson.A {
	out := bson.A{}
	for _, s := range append(models.NonTerminalStatuses(), models.TerminalStatuses()...) {
		out = append(out, string(s))
	}
	return out
}

func moderationQueueSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"guildId", "targetUserId", "targetUsername", "actionType", "initiatorId", "createdAt"},
			"properties": bson.M{
				"guildId":        nonBlank,
				"targetUserId":   nonBlank,
				"targetUsername": nonBlank,
				"actionType":     bson.M{"enum": bson.A{string(models.ModerationKick), string(models.ModerationBan)}},
				"reason":         bson.M{"bsonType": "string", "maxLength": 512},
				"initiatorId":    nonBlank,
				"createdAt":      bson.M{"bsonType": "date"},
			},
		},
	}
}

func queueItemSchema(refField string) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"guildId", refField, "createdAt"},
			"properties": bson.M{
				"guildId":   nonBlank,
				refField:    bson.M{"bsonType": "objectId"},
				"createdAt": bson.M{"bsonType": "date"},
			},
		},
	}
}

func resourceSchema(extraRequired ...string) bson.M {
	required := bson.A{"guildId", "status"}
	for _, f := range extraRequired {
		required = append(required, f)
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": required,
			"properties": bson.M{
				"guildId": nonBlank,
				"status":  bson.M{"enum": statusEnum()},
			},
		},
	}
}

func customCommandsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"guildId", "command"},
			"properties": bson.M{
				"guildId": nonBlank,
				"command": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 32, "pattern": "^[a-z0-9_-]+$"},
				"isEmbed": bson.M{"bsonType": "bool"},
			},
		},
	}
}
