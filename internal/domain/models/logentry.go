// internal/domain/models/logentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogType classifies an audit log entry written by the bot.
type LogType string

const (
	LogMessageDeleted LogType = "MESSAGE_DELETED"
	LogUserJoined     LogType = "USER_JOINED"
	LogUserLeft       LogType = "USER_LEFT"
	LogUserBanned     LogType = "USER_BANNED"
	LogUserKicked     LogType = "USER_KICKED"
	LogUserUnbanned   LogType = "USER_UNBANNED"
	LogAIModeration   LogType = "AI_MODERATION"
	LogAutoModAction  LogType = "AUTO_MOD_ACTION"
	LogGiveawayEnded  LogType = "GIVEAWAY_ENDED"
)

// AuditLogEntry is an append-only record of something the bot observed or did.
type AuditLogEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuildID       string             `bson:"guildId" json:"guildId"`
	Type          LogType            `bson:"type" json:"type"`
	User          string             `bson:"user" json:"user"`
	UserID        string             `bson:"userId" json:"userId"`
	UserAvatarURL string             `bson:"userAvatarUrl" json:"userAvatarUrl"`
	Content       string             `bson:"content" json:"content"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// CommandLogEntry records a command invocation seen by the bot.
type CommandLogEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuildID       string             `bson:"guildId" json:"guildId"`
	Command       string             `bson:"command" json:"command"`
	User          string             `bson:"user" json:"user"`
	UserID        string             `bson:"userId" json:"userId"`
	UserAvatarURL string             `bson:"userAvatarUrl" json:"userAvatarUrl"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}
