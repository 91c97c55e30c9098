// internal/domain/models/queueitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueueItem is a write-once hand-off document created by the dashboard and
// retired by the bot. The concrete variants are ModerationAction,
// ReactionRoleQueueItem, GiveawayQueueItem and ScheduledMessageQueueItem.
type QueueItem interface {
	Family() Family
	Guild() string
	ItemID() primitive.ObjectID
	// Ref is the id of the main resource, or the zero id for moderation.
	Ref() primitive.ObjectID
	isQueueItem()
}

// ModerationAction asks the bot to kick or ban a member. It has no main
// resource; success is the insert not failing.
type ModerationAction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID        string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	TargetUserID   string             `bson:"targetUserId" json:"targetUserId" validate:"required,snowflake"`
	TargetUsername string             `bson:"targetUsername" json:"targetUsername" validate:"required,max=100"`
	ActionType     ModerationType     `bson:"actionType" json:"actionType" validate:"required,oneof=kick ban"`
	Reason         string             `bson:"reason,omitempty" json:"reason,omitempty" validate:"max=512"`
	InitiatorID    string             `bson:"initiatorId" json:"initiatorId" validate:"required"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// ModerationType is the action the bot performs against the target.
type ModerationType string

const (
	ModerationKick ModerationType = "kick"
	ModerationBan  ModerationType = "ban"
)

func (ModerationAction) Family() Family               { return FamilyModeration }
func (m ModerationAction) Guild() string              { return m.GuildID }
func (ModerationAction) Ref() primitive.ObjectID      { return primitive.NilObjectID }
func (m ModerationAction) ItemID() primitive.ObjectID { return m.ID }
func (ModerationAction) isQueueItem()                 {}

// ReactionRoleQueueItem asks the bot to post the embed for a reaction role.
type ReactionRoleQueueItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID        string             `bson:"guildId" json:"guildId"`
	ReactionRoleID primitive.ObjectID `bson:"reactionRoleId" json:"reactionRoleId"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

func (ReactionRoleQueueItem) Family() Family               { return FamilyReactionRole }
func (q ReactionRoleQueueItem) Guild() string              { return q.GuildID }
func (q ReactionRoleQueueItem) Ref() primitive.ObjectID    { return q.ReactionRoleID }
func (q ReactionRoleQueueItem) ItemID() primitive.ObjectID { return q.ID }
func (ReactionRoleQueueItem) isQueueItem()                 {}

// GiveawayQueueItem asks the bot to post and track a giveaway.
type GiveawayQueueItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID    string             `bson:"guildId" json:"guildId"`
	GiveawayID primitive.ObjectID `bson:"giveawayId" json:"giveawayId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (GiveawayQueueItem) Family() Family               { return FamilyGiveaway }
func (q GiveawayQueueItem) Guild() string              { return q.GuildID }
func (q GiveawayQueueItem) Ref() primitive.ObjectID    { return q.GiveawayID }
func (q GiveawayQueueItem) ItemID() primitive.ObjectID { return q.ID }
func (GiveawayQueueItem) isQueueItem()                 {}

// ScheduledMessageQueueItem is the fast-path notice for a new scheduled
// message. The bot still finds due messages by scanning status and nextRun.
type ScheduledMessageQueueItem struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID            string             `bson:"guildId" json:"guildId"`
	ScheduledMessageID primitive.ObjectID `bson:"scheduledMessageId" json:"scheduledMessageId"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

func (ScheduledMessageQueueItem) Family() Family               { return FamilyScheduledMessage }
func (q ScheduledMessageQueueItem) Guild() string              { return q.GuildID }
func (q ScheduledMessageQueueItem) Ref() primitive.ObjectID    { return q.ScheduledMessageID }
func (q ScheduledMessageQueueItem) ItemID() primitive.ObjectID { return q.ID }
func (ScheduledMessageQueueItem) isQueueItem()                 {}

// Resource is a long-lived, status-bearing document the bot acts on.
// Arm stamps identity and lifecycle fields before the first insert.
type Resource interface {
	Family() Family
	ResourceID() primitive.ObjectID
	Guild() string
	CurrentStatus() Status
	Arm(id primitive.ObjectID, status Status, now time.Time)
}
