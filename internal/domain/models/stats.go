// internal/domain/models/stats.go
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MainStatsDocID is the fixed docId of a guild's rolling stats document.
const MainStatsDocID = "main_stats"

// DayCount is one point of the weekly message chart.
type DayCount struct {
	Date  string `bson:"date" json:"date"`
	Count int    `bson:"count" json:"count"`
}

// RoleShare is one slice of the role distribution chart.
type RoleShare struct {
	Name  string `bson:"name" json:"name"`
	Count int    `bson:"count" json:"count"`
	Color string `bson:"color" json:"color"`
}

// RoleDistribution accepts a BSON array or a JSON string, like EmojiRoles.
type RoleDistribution []RoleShare

func (d *RoleDistribution) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var out []RoleShare
	switch t {
	case bsontype.Null, bsontype.Undefined:
	case bsontype.String:
		s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("role distribution: bad string value")
		}
		// A broken chart payload is not worth failing the dashboard over.
		if s != "" && json.Unmarshal([]byte(s), &out) != nil {
			out = nil
		}
	default:
		if err := bson.UnmarshalValue(t, data, &out); err != nil {
			return err
		}
	}
	if out == nil {
		out = []RoleShare{}
	}
	*d = RoleDistribution(out)
	return nil
}

// ServerStats is the bot-maintained counters document for a guild.
type ServerStats struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DocID            string             `bson:"doc_id" json:"docId"`
	GuildID          string             `bson:"guildId" json:"guildId"`
	MemberCount      int                `bson:"memberCount" json:"memberCount"`
	OnlineCount      int                `bson:"onlineCount" json:"onlineCount"`
	MessagesToday    int                `bson:"messagesToday" json:"messagesToday"`
	CommandCount     int                `bson:"commandCount" json:"commandCount"`
	MessagesWeekly   []DayCount         `bson:"messagesWeekly" json:"messagesWeekly"`
	TotalWarnings    int                `bson:"totalWarnings" json:"totalWarnings"`
	RoleDistribution RoleDistribution   `bson:"roleDistribution" json:"roleDistribution"`
}

// EmptyStats is the zero view returned for a guild the bot has not counted.
func EmptyStats(guildID string) ServerStats {
	return ServerStats{
		DocID:            MainStatsDocID,
		GuildID:          guildID,
		MessagesWeekly:   []DayCount{},
		RoleDistribution: RoleDistribution{},
	}
}

// BotInfo is the bot's public identity.
type BotInfo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	AvatarURL string             `bson:"avatarUrl" json:"avatarUrl"`
}

// SystemStatus is the bot's heartbeat.
type SystemStatus struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LastSeen time.Time          `bson:"lastSeen" json:"lastSeen"`
}

// OnlineWindow is how recent a heartbeat must be for the bot to count as up.
const OnlineWindow = 60 * time.Second

// Online reports whether the heartbeat is within OnlineWindow of now.
func (s SystemStatus) Online(now time.Time) bool {
	if s.LastSeen.IsZero() {
		return false
	}
	return now.Sub(s.LastSeen) < OnlineWindow
}
