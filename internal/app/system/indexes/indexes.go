// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup and by `guildhubctl schema ensure`.
Reconciling is idempotent. Errors are aggregated so every problem is
visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, coll := range Collections() {
		if err := ensureIndexSet(ctx, db.Collection(coll), Desired(coll)); err != nil {
			problems = append(problems, coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Collections lists, in reconcile order, every collection with indexes.
func Collections() []string {
	return []string{
		models.CollServerSettings,
		models.CollServerMetadata,
		models.CollServers,
		models.CollServerStats,
		models.CollModerationQueue,
		models.CollReactionRoles,
		models.CollReactionRoleQueue,
		models.CollGiveaways,
		models.CollGiveawayQueue,
		models.CollScheduledMessages,
		models.CollScheduledMessageQueue,
		models.CollYoutubeSubscriptions,
		models.CollCustomCommands,
		models.CollUserLevels,
		models.CollMembers,
		models.CollAuditLogs,
		models.CollCommandLogs,
	}
}

// Desired returns the index models for one collection.
func Desired(coll string) []mongo.IndexModel {
	switch coll {
	case models.CollServerSettings, models.CollServerMetadata, models.CollServers:
		return []mongo.IndexModel{uniq("uniq_guild", bson.D{{Key: "guildId", Value: 1}})}

	case models.CollServerStats:
		// One row per (guild, doc kind); today only "main_stats".
		return []mongo.IndexModel{uniq("uniq_guild_doc", bson.D{{Key: "guildId", Value: 1}, {Key: "doc_id", Value: 1}})}

	case models.CollModerationQueue, models.CollReactionRoleQueue, models.CollGiveawayQueue, models.CollScheduledMessageQueue:
		return []mongo.IndexModel{idx("idx_guild_created", bson.D{{Key: "guildId", Value: 1}, {Key: "createdAt", Value: 1}})}

	case models.CollReactionRoles:
		return []mongo.IndexModel{
			idx("idx_guild_message", bson.D{{Key: "guildId", Value: 1}, {Key: "messageId", Value: 1}}),
			idx("idx_status_updated", bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}}),
		}

	case models.CollGiveaways:
		return []mongo.IndexModel{
			idx("idx_status_ends", bson.D{{Key: "status", Value: 1}, {Key: "endsAt", Value: 1}}),
			idx("idx_guild_ends_desc", bson.D{{Key: "guildId", Value: 1}, {Key: "endsAt", Value: -1}}),
		}

	case models.CollScheduledMessages:
		// Bot poll: status = pending AND nextRun <= now.
		return []mongo.IndexModel{
			idx("idx_status_nextrun", bson.D{{Key: "status", Value: 1}, {Key: "nextRun", Value: 1}}),
			idx("idx_guild_nextrun_desc", bson.D{{Key: "guildId", Value: 1}, {Key: "nextRun", Value: -1}}),
		}

	case models.CollYoutubeSubscriptions:
		return []mongo.IndexModel{
			idx("idx_guild_channelci", bson.D{{Key: "guildId", Value: 1}, {Key: "youtubeChannelNameCi", Value: 1}}),
			idx("idx_status_updated", bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}}),
		}

	case models.CollCustomCommands:
		return []mongo.IndexModel{uniq("uniq_guild_command", bson.D{{Key: "guildId", Value: 1}, {Key: "command", Value: 1}})}

	case models.CollUserLevels:
		return []mongo.IndexModel{
			uniq("uniq_guild_user", bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}}),
			idx("idx_guild_rank", bson.D{{Key: "guildId", Value: 1}, {Key: "level", Value: -1}, {Key: "xp", Value: -1}, {Key: "userId", Value: 1}}),
		}

	case models.CollMembers:
		return []mongo.IndexModel{
			uniq("uniq_guild_user", bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}}),
			// Keyset paging: username asc, _id asc.
			idx("idx_guild_username_id", bson.D{{Key: "guildId", Value: 1}, {Key: "username", Value: 1}, {Key: "_id", Value: 1}}),
			idx("text_username", bson.D{{Key: "username", Value: "text"}}),
		}

	case models.CollAuditLogs, models.CollCommandLogs:
		return []mongo.IndexModel{idx("idx_guild_ts_desc", bson.D{{Key: "guildId", Value: 1}, {Key: "timestamp", Value: -1}})}
	}
	return nil
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// isTextKeys reports whether the key pattern declares a text index. The
// server stores text indexes as {_fts, _ftsx}, so they are matched by name.
func isTextKeys(keys bson.D) bool {
	for _, kv := range keys {
		if s, ok := kv.Value.(string); ok && s == "text" {
			return true
		}
	}
	return false
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (bySig, byName map[string]existingIndex) {
	bySig = map[string]existingIndex{}
	byName = map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return bySig, byName
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		bySig[keySig(ix.Key)] = ix
		byName[ix.Name] = ix
	}
	return bySig, byName
}

// recreate drops an index and creates the desired one in its place.
func recreate(ctx context.Context, coll *mongo.Collection, oldName string, m mongo.IndexModel, unique bool) error {
	if _, err := coll.Indexes().DropOne(ctx, oldName); err != nil {
		return fmt.Errorf("drop %s failed: %w", oldName, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if unique && isDuplicateKeyErr(err) {
			return errors.New("cannot create unique index (duplicates present)")
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	var errs []string

	for _, m := range desired {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		keys := m.Keys.(bson.D)
		desiredSig := keySig(keys)
		unique := desiredUnique != nil && *desiredUnique

		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))
		log.Info("ensuring index")

		bySig, byName := listExisting(ctx, coll)

		ex, found := bySig[desiredSig]
		if !found && isTextKeys(keys) {
			ex, found = byName[desiredName]
		}

		if found {
			switch {
			case !sameBoolPtr(desiredUnique, ex.Unique):
				// Options mismatch (e.g., upgrading to unique). Drop & recreate.
				if err := recreate(ctx, coll, ex.Name, m, unique); err != nil {
					log.Warn("index recreate failed", zap.Error(err))
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
					continue
				}
				log.Info("index dropped and recreated", zap.String("took", time.Since(start).String()))
			case desiredName != "" && ex.Name != desiredName:
				log.Info("renaming index to align with desired name", zap.String("from", ex.Name))
				if err := recreate(ctx, coll, ex.Name, m, unique); err != nil {
					log.Warn("index rename failed", zap.Error(err))
					errs = append(errs, fmt.Sprintf("%s(%s): rename failed: %v", coll.Name(), desiredName, err))
					continue
				}
				log.Info("index renamed", zap.String("took", time.Since(start).String()))
			default:
				log.Info("reusing existing index", zap.String("took", time.Since(start).String()))
			}
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			log.Info("index ensured",
				zap.String("created_name", created),
				zap.String("took", time.Since(start).String()))
			continue
		}

		if isOptionsConflictErr(err) {
			// Same keys under a different name appeared between List and Create.
			bySig2, _ := listExisting(ctx, coll)
			if other, ok := bySig2[desiredSig]; ok {
				e2 := recreate(ctx, coll, other.Name, m, unique)
				if e2 == nil {
					log.Info("index dropped and recreated (post-conflict)",
						zap.String("took", time.Since(start).String()))
					continue
				}
				err = e2
			}
		} else if unique && isDuplicateKeyErr(err) {
			err = errors.New("cannot create unique index (duplicates present)")
		}

		log.Warn("index ensure failed",
			zap.String("took", time.Since(start).String()),
			zap.Error(err))
		errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
