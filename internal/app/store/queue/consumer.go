package queue

import (
	"context"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/lifecycle"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Consumer is the bot side of the hand-off. The bot process has its own
// implementation; this one states the contract and drives the tests and
// operator tooling. Every method is safe to apply more than once.
type Consumer struct {
	db  *mongo.Database
	log *zap.Logger
	now func() time.Time
}

// NewConsumer creates a consumer over db.
func NewConsumer(db *mongo.Database, logger *zap.Logger) *Consumer {
	return &Consumer{db: db, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Outcome is what the bot learned while doing the work.
type Outcome struct {
	MessageID string   // posted message, when the family posts one
	Winners   []string // giveaway winners
}

// Next returns up to limit queue items of a family, oldest first.
func (c *Consumer) Next(ctx context.Context, f models.Family, limit int64) ([]models.QueueItem, error) {
	fc, err := familyFor(f)
	if err != nil {
		return nil, err
	}
	if fc.queue == "" {
		return nil, ErrNoQueue
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := c.db.Collection(fc.queue).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.QueueItem
	for cur.Next(ctx) {
		item, err := fc.decode(cur.Current)
		if err != nil {
			c.log.Warn("skipping undecodable queue item",
				zap.String("collection", fc.queue),
				zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out, cur.Err()
}

// Complete records a successful outcome. The write only applies to a
// non-terminal resource, so a second application after the resource is
// done changes nothing and is reported as success.
func (c *Consumer) Complete(ctx context.Context, f models.Family, id primitive.ObjectID, out Outcome) (models.Status, error) {
	rules, err := lifecycle.For(f)
	if err != nil {
		return "", err
	}
	set := bson.M{}
	if out.MessageID != "" {
		set["messageId"] = out.MessageID
	}
	if out.Winners != nil {
		set["winners"] = out.Winners
	}
	return c.finish(ctx, f, id, lifecycle.Complete, rules.Done, set)
}

// Fail records that the bot gave up on the resource.
func (c *Consumer) Fail(ctx context.Context, f models.Family, id primitive.ObjectID) (models.Status, error) {
	return c.finish(ctx, f, id, lifecycle.Fail, models.StatusError, bson.M{})
}

func (c *Consumer) finish(ctx context.Context, f models.Family, id primitive.ObjectID, ev lifecycle.Event, target models.Status, set bson.M) (models.Status, error) {
	fc, err := familyFor(f)
	if err != nil {
		return "", err
	}
	if fc.resources == "" {
		return "", ErrNoQueue
	}
	coll := c.db.Collection(fc.resources)

	var doc Ref
	err = coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"guildId": 1, "status": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	next, err := lifecycle.Transition(f, doc.Status, ev)
	if err != nil {
		return doc.Status, err
	}
	if next == doc.Status {
		// Already applied.
		return next, nil
	}

	set["status"] = target
	set["updatedAt"] = c.now()
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": statusIn(models.NonTerminalStatuses())},
		bson.M{"$set": set})
	if err != nil {
		c.log.Error("apply outcome failed",
			zap.String("guild_id", doc.GuildID),
			zap.String("collection", fc.resources),
			zap.String("op", string(ev)),
			zap.Error(err))
		return "", err
	}
	if res.MatchedCount == 0 {
		// Another consumer finished it between the read and the write.
		return c.current(ctx, coll, id)
	}
	return target, nil
}

func (c *Consumer) current(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (models.Status, error) {
	var doc Ref
	err := coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrNotFound
	}
	return doc.Status, err
}

// Reschedule arms a repeating scheduled message for its next run.
func (c *Consumer) Reschedule(ctx context.Context, id primitive.ObjectID, nextRun time.Time) (models.Status, error) {
	const f = models.FamilyScheduledMessage
	coll := c.db.Collection(families[f].resources)

	cur, err := c.current(ctx, coll, id)
	if err != nil {
		return "", err
	}
	next, err := lifecycle.Transition(f, cur, lifecycle.Reschedule)
	if err != nil {
		return cur, err
	}
	now := c.now()
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": cur},
		bson.M{"$set": bson.M{"status": next, "nextRun": nextRun, "lastRun": now, "updatedAt": now}})
	if err != nil {
		return "", err
	}
	if res.MatchedCount == 0 {
		// Deleted or moved on between the read and the write.
		return c.current(ctx, coll, id)
	}
	return next, nil
}

// Retire deletes a handled queue item. An item that is already gone counts
// as retired.
func (c *Consumer) Retire(ctx context.Context, f models.Family, itemID primitive.ObjectID) error {
	fc, err := familyFor(f)
	if err != nil {
		return err
	}
	if fc.queue == "" {
		return ErrNoQueue
	}
	_, err = c.db.Collection(fc.queue).DeleteOne(ctx, bson.M{"_id": itemID})
	return err
}
