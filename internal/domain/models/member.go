// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuildMember is the bot's copy of a guild member, used for the member
// picker and moderation targets.
type GuildMember struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuildID       string             `bson:"guildId" json:"guildId"`
	UserID        string             `bson:"userId" json:"userId"`
	Username      string             `bson:"username" json:"username"`
	UserAvatarURL string             `bson:"userAvatarUrl" json:"userAvatarUrl"`
	JoinedAt      *time.Time         `bson:"joinedAt,omitempty" json:"joinedAt,omitempty"`
}
