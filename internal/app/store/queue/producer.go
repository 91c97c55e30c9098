package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/lifecycle"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Producer is the dashboard side of the hand-off.
type Producer struct {
	db  *mongo.Database
	log *zap.Logger
	now func() time.Time
}

// NewProducer creates a producer over db.
func NewProducer(db *mongo.Database, logger *zap.Logger) *Producer {
	return &Producer{db: db, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Enqueue validates r, inserts it in its family's initial status and then
// inserts the companion queue item. The two writes are independent: when
// the queue item cannot be written the failure is logged and Enqueue still
// succeeds with a nil item, because the bot also finds work by scanning
// status.
func (p *Producer) Enqueue(ctx context.Context, r models.Resource) (models.Resource, models.QueueItem, error) {
	f := r.Family()
	fc, err := familyFor(f)
	if err != nil {
		return r, nil, err
	}
	if err := inputval.Struct(r); err != nil {
		return r, nil, err
	}
	initial, err := lifecycle.Transition(f, "", lifecycle.Enqueue)
	if err != nil {
		return r, nil, err
	}

	now := p.now()
	r.Arm(primitive.NewObjectID(), initial, now)
	if _, err := p.db.Collection(fc.resources).InsertOne(ctx, r); err != nil {
		p.log.Error("enqueue: insert resource failed",
			zap.String("guild_id", r.Guild()),
			zap.String("collection", fc.resources),
			zap.String("op", "insert"),
			zap.Error(err))
		return r, nil, fmt.Errorf("insert %s: %w", f, err)
	}

	if fc.queue == "" {
		return r, nil, nil
	}
	item := fc.newItem(r.Guild(), r.ResourceID(), now)
	if _, err := p.db.Collection(fc.queue).InsertOne(ctx, item); err != nil {
		p.log.Warn("enqueue: insert queue item failed; resource will be picked up by status scan",
			zap.String("guild_id", r.Guild()),
			zap.String("collection", fc.queue),
			zap.String("op", "insert"),
			zap.String("resource_id", r.ResourceID().Hex()),
			zap.Error(err))
		return r, nil, nil
	}
	return r, item, nil
}

// ReArm moves a terminal resource back to its family's re-arm status so
// the bot acts on it again. No queue item is written. Re-arming a resource
// that is already non-terminal is a no-op; the current status is returned.
func (p *Producer) ReArm(ctx context.Context, f models.Family, guildID string, id primitive.ObjectID) (models.Status, error) {
	fc, err := familyFor(f)
	if err != nil {
		return "", err
	}
	if fc.resources == "" {
		return "", ErrNoQueue
	}
	rules, err := lifecycle.For(f)
	if err != nil {
		return "", err
	}
	coll := p.db.Collection(fc.resources)

	set := bson.M{"status": rules.Rearmed}
	for k, v := range fc.rearm {
		set[k] = v
	}

	// The status filter makes the write conditional; one retry covers a
	// resource that went terminal between the update and the read-back.
	for attempt := 0; attempt < 2; attempt++ {
		set["updatedAt"] = p.now()
		res, err := coll.UpdateOne(ctx,
			bson.M{"_id": id, "guildId": guildID, "status": statusIn(models.TerminalStatuses())},
			bson.M{"$set": set})
		if err != nil {
			p.log.Error("rearm failed",
				zap.String("guild_id", guildID),
				zap.String("collection", fc.resources),
				zap.String("op", "rearm"),
				zap.Error(err))
			return "", err
		}
		if res.MatchedCount == 1 {
			return rules.Rearmed, nil
		}

		cur, err := p.status(ctx, coll, guildID, id)
		if err != nil {
			return "", err
		}
		if !cur.Terminal() {
			return lifecycle.Transition(f, cur, lifecycle.ReArm)
		}
	}
	return "", ErrConflict
}

func (p *Producer) status(ctx context.Context, coll *mongo.Collection, guildID string, id primitive.ObjectID) (models.Status, error) {
	var ref Ref
	err := coll.FindOne(ctx, bson.M{"_id": id, "guildId": guildID},
		options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&ref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	return ref.Status, err
}

// Delete removes the main resource only. Outstanding queue items are left
// for the bot, which skips items whose resource no longer exists.
func (p *Producer) Delete(ctx context.Context, f models.Family, guildID string, id primitive.ObjectID) error {
	fc, err := familyFor(f)
	if err != nil {
		return err
	}
	if fc.resources == "" {
		return ErrNoQueue
	}
	res, err := p.db.Collection(fc.resources).DeleteOne(ctx, bson.M{"_id": id, "guildId": guildID})
	if err != nil {
		p.log.Error("delete resource failed",
			zap.String("guild_id", guildID),
			zap.String("collection", fc.resources),
			zap.String("op", "delete"),
			zap.Error(err))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ScanActionable returns resources in a non-terminal status, oldest update
// first. An empty guildID scans every guild.
func (p *Producer) ScanActionable(ctx context.Context, f models.Family, guildID string, limit int64) ([]Ref, error) {
	filter := bson.M{"status": statusIn(models.NonTerminalStatuses())}
	if guildID != "" {
		filter["guildId"] = guildID
	}
	return p.scan(ctx, f, filter, limit)
}

// ScanStale returns non-terminal resources not updated within grace. These
// are commands the bot has not picked up or not finished. For families with
// a due time (giveaway endsAt, scheduled nextRun) the due time must also be
// more than grace in the past; a giveaway still running before it ends is
// healthy.
func (p *Producer) ScanStale(ctx context.Context, f models.Family, grace time.Duration, limit int64) ([]Ref, error) {
	fc, err := familyFor(f)
	if err != nil {
		return nil, err
	}
	cutoff := p.now().Add(-grace)
	filter := bson.M{
		"status":    statusIn(models.NonTerminalStatuses()),
		"updatedAt": bson.M{"$lt": cutoff},
	}
	if fc.due != "" {
		filter[fc.due] = bson.M{"$lt": cutoff}
	}
	return p.scan(ctx, f, filter, limit)
}

func (p *Producer) scan(ctx context.Context, f models.Family, filter bson.M, limit int64) ([]Ref, error) {
	fc, err := familyFor(f)
	if err != nil {
		return nil, err
	}
	if fc.resources == "" {
		return nil, ErrNoQueue
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"guildId": 1, "status": 1, "createdAt": 1, "updatedAt": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := p.db.Collection(fc.resources).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Ref, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
