// internal/domain/models/giveaway.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingMessageID marks a resource whose Discord message has not been
// posted yet.
const PendingMessageID = "pending"

// Giveaway is a timed prize draw the bot runs in a channel.
type Giveaway struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID        string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	ChannelID      string             `bson:"channelId" json:"channelId" validate:"required,snowflake"`
	MessageID      string             `bson:"messageId" json:"messageId"`
	Prize          string             `bson:"prize" json:"prize" validate:"required,max=256"`
	WinnerCount    int                `bson:"winnerCount" json:"winnerCount" validate:"min=1,max=50"`
	EndsAt         time.Time          `bson:"endsAt" json:"endsAt" validate:"required"`
	Status         Status             `bson:"status" json:"status"`
	RequiredRoleID string             `bson:"requiredRoleId,omitempty" json:"requiredRoleId,omitempty" validate:"omitempty,snowflake"`
	Winners        []string           `bson:"winners,omitempty" json:"winners,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (g *Giveaway) Family() Family                 { return FamilyGiveaway }
func (g *Giveaway) ResourceID() primitive.ObjectID { return g.ID }
func (g *Giveaway) Guild() string                  { return g.GuildID }
func (g *Giveaway) CurrentStatus() Status          { return g.Status }

func (g *Giveaway) Arm(id primitive.ObjectID, status Status, now time.Time) {
	g.ID = id
	g.Status = status
	g.MessageID = PendingMessageID
	g.CreatedAt = now
	g.UpdatedAt = now
}
