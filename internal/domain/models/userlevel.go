// internal/domain/models/userlevel.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserLevel is a member's XP standing in a guild. The bot owns both fields;
// Level is derived from XP.
type UserLevel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID       string             `bson:"guildId" json:"guildId"`
	UserID        string             `bson:"userId" json:"userId"`
	Username      string             `bson:"username" json:"username"`
	UserAvatarURL string             `bson:"userAvatarUrl" json:"userAvatarUrl"`
	Level         int                `bson:"level" json:"level"`
	XP            int                `bson:"xp" json:"xp"`
}
