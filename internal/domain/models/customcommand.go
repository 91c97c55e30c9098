// internal/domain/models/customcommand.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomCommand is a guild-defined text command. It is plain configuration
// the bot reads on demand; it carries no status.
type CustomCommand struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID      string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	Command      string             `bson:"command" json:"command" validate:"required,max=32,commandname"`
	Response     string             `bson:"response" json:"response" validate:"required_without=IsEmbed,max=2000"`
	IsEmbed      bool               `bson:"isEmbed" json:"isEmbed"`
	EmbedContent string             `bson:"embedContent" json:"embedContent" validate:"required_if=IsEmbed true,max=4096"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
