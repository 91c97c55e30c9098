// internal/domain/models/scheduledmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repeat controls whether the bot re-arms a scheduled message after sending.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

// Next returns the run after t for a repeating schedule, or false for none.
func (r Repeat) Next(t time.Time) (time.Time, bool) {
	switch r {
	case RepeatDaily:
		return t.AddDate(0, 0, 1), true
	case RepeatWeekly:
		return t.AddDate(0, 0, 7), true
	case RepeatMonthly:
		return t.AddDate(0, 1, 0), true
	}
	return time.Time{}, false
}

// ScheduledMessage is a message the bot posts at NextRun.
type ScheduledMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID   string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	ChannelID string             `bson:"channelId" json:"channelId" validate:"required,snowflake"`
	Content   string             `bson:"content" json:"content" validate:"required,max=2000"`
	Schedule  time.Time          `bson:"schedule" json:"schedule"`
	Repeat    Repeat             `bson:"repeat" json:"repeat" validate:"omitempty,oneof=none daily weekly monthly"`
	Status    Status             `bson:"status" json:"status"`
	LastRun   *time.Time         `bson:"lastRun,omitempty" json:"lastRun,omitempty"`
	NextRun   time.Time          `bson:"nextRun" json:"nextRun" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *ScheduledMessage) Family() Family                 { return FamilyScheduledMessage }
func (m *ScheduledMessage) ResourceID() primitive.ObjectID { return m.ID }
func (m *ScheduledMessage) Guild() string                  { return m.GuildID }
func (m *ScheduledMessage) CurrentStatus() Status          { return m.Status }

func (m *ScheduledMessage) Arm(id primitive.ObjectID, status Status, now time.Time) {
	m.ID = id
	m.Status = status
	if m.Repeat == "" {
		m.Repeat = RepeatNone
	}
	if m.Schedule.IsZero() {
		m.Schedule = m.NextRun
	}
	m.CreatedAt = now
	m.UpdatedAt = now
}
