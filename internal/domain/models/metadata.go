// internal/domain/models/metadata.go
package models

import (
	"fmt"
	"time"
)

// Placeholder names shown when the bot has not (yet) published a name.
const (
	UnknownName     = "Unknown"
	UnknownRoleName = "Unknown Role"
	PendingName     = "(name pending…)"
)

// Channel is a guild channel as last seen by the bot.
type Channel struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Role is a guild role as last seen by the bot. Color is the packed RGB
// integer Discord uses.
type Role struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Color int    `bson:"color" json:"color"`
}

// HexColor formats the role colour as #rrggbb.
func (r Role) HexColor() string {
	return fmt.Sprintf("#%06x", r.Color&0xffffff)
}

// GuildMetadata is the bot's periodic snapshot of a guild's channels and
// roles. It is read-only for the dashboard and may be stale.
type GuildMetadata struct {
	GuildID  string     `json:"guildId"`
	Channels []Channel  `json:"channels"`
	Roles    []Role     `json:"roles"`
	SyncedAt *time.Time `json:"syncedAt,omitempty"`
}

// ChannelName resolves a channel id for display. It never fails: a nil
// snapshot or a missing id yields UnknownName, an empty name PendingName.
func (m *GuildMetadata) ChannelName(id string) string {
	if m == nil || id == "" {
		return UnknownName
	}
	for _, c := range m.Channels {
		if c.ID == id {
			if c.Name == "" {
				return PendingName
			}
			return c.Name
		}
	}
	return UnknownName
}

// RoleName resolves a role id for display, with the same fallbacks as
// ChannelName.
func (m *GuildMetadata) RoleName(id string) string {
	if m == nil || id == "" {
		return UnknownRoleName
	}
	for _, r := range m.Roles {
		if r.ID == id {
			if r.Name == "" {
				return PendingName
			}
			return r.Name
		}
	}
	return UnknownRoleName
}

// HasChannel reports whether id is present in the snapshot.
func (m *GuildMetadata) HasChannel(id string) bool {
	if m == nil {
		return false
	}
	for _, c := range m.Channels {
		if c.ID == id {
			return true
		}
	}
	return false
}

// IsStale reports whether the snapshot is older than tolerance. A snapshot
// without a sync time is always stale.
func (m *GuildMetadata) IsStale(now time.Time, tolerance time.Duration) bool {
	if m == nil || m.SyncedAt == nil {
		return true
	}
	return now.Sub(*m.SyncedAt) > tolerance
}
