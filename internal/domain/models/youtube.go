// internal/domain/models/youtube.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement templates used when a subscription leaves them blank.
const (
	DefaultUploadMessage = "📢 Hey @everyone! {channelName} just uploaded a new video!\n\n**{videoTitle}**\n{videoUrl}"
	DefaultLiveMessage   = "🔴 Hey @everyone! {channelName} is now LIVE!\n\n**{videoTitle}**\n{videoUrl}"
)

// YoutubeSubscription tells the bot to announce new uploads of a YouTube
// channel. The poll cursor fields are written by the bot only.
type YoutubeSubscription struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID              string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	YoutubeChannelID     string             `bson:"youtubeChannelId" json:"youtubeChannelId" validate:"required,max=64"`
	YoutubeChannelName   string             `bson:"youtubeChannelName,omitempty" json:"youtubeChannelName,omitempty" validate:"max=100"`
	YoutubeChannelNameCI string             `bson:"youtubeChannelNameCi" json:"-"`
	DiscordChannelID     string             `bson:"discordChannelId" json:"discordChannelId" validate:"required,snowflake"`
	MentionRoleID        string             `bson:"mentionRoleId,omitempty" json:"mentionRoleId,omitempty" validate:"omitempty,snowflake"`
	CustomMessage        string             `bson:"customMessage,omitempty" json:"customMessage,omitempty" validate:"max=2000"`
	LiveMessage          string             `bson:"liveMessage,omitempty" json:"liveMessage,omitempty" validate:"max=2000"`
	Status               Status             `bson:"status" json:"status"`

	// Poll cursor, owned by the bot.
	LastVideoTimestamp      string `bson:"lastVideoTimestamp,omitempty" json:"lastVideoTimestamp,omitempty"`
	AnnouncedVideoIDs       string `bson:"announcedVideoIds,omitempty" json:"announcedVideoIds,omitempty"`
	LastAnnouncedVideoID    string `bson:"lastAnnouncedVideoId,omitempty" json:"lastAnnouncedVideoId,omitempty"`
	LastAnnouncedVideoTitle string `bson:"lastAnnouncedVideoTitle,omitempty" json:"lastAnnouncedVideoTitle,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (y *YoutubeSubscription) Family() Family                 { return FamilyYoutube }
func (y *YoutubeSubscription) ResourceID() primitive.ObjectID { return y.ID }
func (y *YoutubeSubscription) Guild() string                  { return y.GuildID }
func (y *YoutubeSubscription) CurrentStatus() Status          { return y.Status }

func (y *YoutubeSubscription) Arm(id primitive.ObjectID, status Status, now time.Time) {
	y.ID = id
	y.Status = status
	if y.CustomMessage == "" {
		y.CustomMessage = DefaultUploadMessage
	}
	if y.LiveMessage == "" {
		y.LiveMessage = DefaultLiveMessage
	}
	y.CreatedAt = now
	y.UpdatedAt = now
}
