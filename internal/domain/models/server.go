// internal/domain/models/server.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Server is a guild the bot has joined. The bot registers servers; the
// dashboard lists them.
type Server struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID string             `bson:"guildId" json:"guildId"`
	Name    string             `bson:"name" json:"name"`
	IconURL string             `bson:"iconUrl" json:"iconUrl"`
}
