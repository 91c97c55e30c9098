// Package queue implements both sides of the dashboard/bot hand-off: the
// Producer writes main resources and their companion queue items, and the
// Consumer applies bot outcomes. Neither side uses transactions; every
// write is a single-document operation and the status field is the
// source of truth.
package queue

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a resource or queue item does not exist in
// the given guild.
var ErrNotFound = errors.New("not found")

// ErrNoQueue is returned for operations on a family without queue items.
var ErrNoQueue = errors.New("family has no queue collection")

// ErrConflict is returned when a resource keeps changing status underneath
// a conditional update.
var ErrConflict = errors.New("resource status changed concurrently")

type familyColls struct {
	resources string // main collection
	queue     string // companion queue collection, "" when none
	refField  string // queue item field holding the main resource id
	newItem   func(guildID string, ref primitive.ObjectID, now time.Time) models.QueueItem
	decode    func(raw bson.Raw) (models.QueueItem, error)
	rearm     bson.M // extra fields reset on re-arm
	due       string // time field before which the bot is not expected to act, "" when none
}

var families = map[models.Family]familyColls{
	models.FamilyReactionRole: {
		resources: models.CollReactionRoles,
		queue:     models.CollReactionRoleQueue,
		refField:  "reactionRoleId",
		decode:    decodeAs[models.ReactionRoleQueueItem],
		rearm:     bson.M{"messageId": models.PendingMessageID},
		newItem: func(g string, ref primitive.ObjectID, now time.Time) models.QueueItem {
			return models.ReactionRoleQueueItem{ID: primitive.NewObjectID(), GuildID: g, ReactionRoleID: ref, CreatedAt: now}
		},
	},
	models.FamilyGiveaway: {
		resources: models.CollGiveaways,
		queue:     models.CollGiveawayQueue,
		refField:  "giveawayId",
		due:       "endsAt",
		decode:    decodeAs[models.GiveawayQueueItem],
		newItem: func(g string, ref primitive.ObjectID, now time.Time) models.QueueItem {
			return models.GiveawayQueueItem{ID: primitive.NewObjectID(), GuildID: g, GiveawayID: ref, CreatedAt: now}
		},
	},
	models.FamilyScheduledMessage: {
		resources: models.CollScheduledMessages,
		queue:     models.CollScheduledMessageQueue,
		refField:  "scheduledMessageId",
		due:       "nextRun",
		decode:    decodeAs[models.ScheduledMessageQueueItem],
		newItem: func(g string, ref primitive.ObjectID, now time.Time) models.QueueItem {
			return models.ScheduledMessageQueueItem{ID: primitive.NewObjectID(), GuildID: g, ScheduledMessageID: ref, CreatedAt: now}
		},
	},
	// Subscriptions are found by the bot's poll loop; there is no queue.
	models.FamilyYoutube: {
		resources: models.CollYoutubeSubscriptions,
	},
	models.FamilyModeration: {
		queue:  models.CollModerationQueue,
		decode: decodeAs[models.ModerationAction],
	},
}

func familyFor(f models.Family) (familyColls, error) {
	s, ok := families[f]
	if !ok {
		return familyColls{}, fmt.Errorf("unknown family %q", f)
	}
	return s, nil
}

func decodeAs[T models.QueueItem](raw bson.Raw) (models.QueueItem, error) {
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ResourceCollection returns the main collection name of a family.
func ResourceCollection(f models.Family) string { return families[f].resources }

// QueueCollection returns the queue collection name of a family.
func QueueCollection(f models.Family) string { return families[f].queue }

// Ref is the projection returned by status scans.
type Ref struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	GuildID   string             `bson:"guildId" json:"guildId"`
	Status    models.Status      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func statusIn(ss []models.Status) bson.M {
	a := make(bson.A, 0, len(ss))
	for _, s := range ss {
		a = append(a, s)
	}
	return bson.M{"$in": a}
}
