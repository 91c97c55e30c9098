// internal/domain/models/reactionrole.go
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultEmbedColor is Discord's blurple.
const DefaultEmbedColor = "#5865F2"

// EmojiRole pairs a reaction emoji with the role it grants.
type EmojiRole struct {
	Emoji  string `bson:"emoji" json:"emoji" validate:"required,max=64"`
	RoleID string `bson:"roleId" json:"roleId" validate:"required,snowflake"`
}

// EmojiRoles decodes from either a BSON array or a JSON string holding an
// array; older writers stored the list as a string.
type EmojiRoles []EmojiRole

func (e *EmojiRoles) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*e = EmojiRoles{}
		return nil
	case bsontype.String:
		s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("emoji roles: bad string value")
		}
		var out []EmojiRole
		if s != "" {
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return fmt.Errorf("emoji roles: %w", err)
			}
		}
		*e = EmojiRoles(out)
		return nil
	}
	var out []EmojiRole
	if err := bson.UnmarshalValue(t, data, &out); err != nil {
		return err
	}
	*e = EmojiRoles(out)
	return nil
}

// ReactionRole is an embed the bot posts and watches for reactions.
type ReactionRole struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID          string             `bson:"guildId" json:"guildId" validate:"required,snowflake"`
	ChannelID        string             `bson:"channelId" json:"channelId" validate:"required,snowflake"`
	MessageID        string             `bson:"messageId" json:"messageId"`
	EmbedTitle       string             `bson:"embedTitle" json:"embedTitle" validate:"required,max=256"`
	EmbedDescription string             `bson:"embedDescription" json:"embedDescription" validate:"max=4096"`
	EmbedColor       string             `bson:"embedColor" json:"embedColor" validate:"omitempty,hexcolor"`
	Roles            EmojiRoles         `bson:"roles" json:"roles" validate:"required,min=1,max=20,dive"`
	Status           Status             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (r *ReactionRole) Family() Family                 { return FamilyReactionRole }
func (r *ReactionRole) ResourceID() primitive.ObjectID { return r.ID }
func (r *ReactionRole) Guild() string                  { return r.GuildID }
func (r *ReactionRole) CurrentStatus() Status          { return r.Status }

func (r *ReactionRole) Arm(id primitive.ObjectID, status Status, now time.Time) {
	r.ID = id
	r.Status = status
	r.MessageID = PendingMessageID
	if r.EmbedColor == "" {
		r.EmbedColor = DefaultEmbedColor
	}
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Posted reports whether the bot has posted the embed.
func (r *ReactionRole) Posted() bool {
	return r.MessageID != "" && r.MessageID != PendingMessageID
}
