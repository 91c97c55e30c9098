// internal/domain/models/settings.go
package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section keys name the JSON blob fields of a server_settings document.
const (
	SectionWelcome  = "welcomeSettings"
	SectionGoodbye  = "goodbyeSettings"
	SectionAutoRole = "autoRoleSettings"
	SectionLeveling = "levelingSettings"
	SectionAutoMod  = "autoModSettings"
)

// GuildSettings is the resolved settings aggregate for one guild. Each
// section is stored as its own JSON string field and merged over defaults
// when read.
type GuildSettings struct {
	ID        primitive.ObjectID `json:"id,omitempty"`
	GuildID   string             `json:"guildId"`
	Welcome   WelcomeSettings    `json:"welcome"`
	Goodbye   GoodbyeSettings    `json:"goodbye"`
	AutoRole  AutoRoleSettings   `json:"autoRole"`
	Leveling  LevelingSettings   `json:"leveling"`
	AutoMod   AutoModSettings    `json:"autoMod"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

// Sections returns pointers to every section in storage order.
func (g *GuildSettings) Sections() []Section {
	return []Section{&g.Welcome, &g.Goodbye, &g.AutoRole, &g.Leveling, &g.AutoMod}
}

// Section is one independently stored settings blob. Normalize repairs
// values that decoded but are out of range; it must be idempotent.
type Section interface {
	Key() string
	Normalize()
}

type WelcomeSettings struct {
	Enabled   bool   `json:"enabled"`
	Message   string `json:"message"`
	ChannelID string `json:"channelId"`
}

func (*WelcomeSettings) Key() string { return SectionWelcome }
func (*WelcomeSettings) Normalize()  {}

type GoodbyeSettings struct {
	Enabled   bool   `json:"enabled"`
	Message   string `json:"message"`
	ChannelID string `json:"channelId"`
}

func (*GoodbyeSettings) Key() string { return SectionGoodbye }
func (*GoodbyeSettings) Normalize()  {}

type AutoRoleSettings struct {
	Enabled bool   `json:"enabled"`
	RoleID  string `json:"roleId"`
}

func (*AutoRoleSettings) Key() string { return SectionAutoRole }
func (*AutoRoleSettings) Normalize()  {}

// RoleReward grants RoleID when a member reaches Level.
type RoleReward struct {
	Level  int    `json:"level"`
	RoleID string `json:"roleId"`
}

type LevelingSettings struct {
	Enabled             bool         `json:"enabled"`
	ChannelID           string       `json:"channelId"`
	Message             string       `json:"message"`
	RoleRewards         []RoleReward `json:"roleRewards"`
	XPPerMessageMin     int          `json:"xpPerMessageMin"`
	XPPerMessageMax     int          `json:"xpPerMessageMax"`
	CooldownSeconds     int          `json:"cooldownSeconds"`
	BlacklistedChannels []string     `json:"blacklistedChannels"`
}

func (*LevelingSettings) Key() string { return SectionLeveling }

// Normalize keeps rewards sorted by level with one reward per level and
// keeps the XP range ordered.
func (l *LevelingSettings) Normalize() {
	rewards := make([]RoleReward, 0, len(l.RoleRewards))
	seen := make(map[int]bool, len(l.RoleRewards))
	for _, r := range l.RoleRewards {
		r.RoleID = strings.TrimSpace(r.RoleID)
		if r.Level < 1 || r.RoleID == "" || seen[r.Level] {
			continue
		}
		seen[r.Level] = true
		rewards = append(rewards, r)
	}
	sort.SliceStable(rewards, func(i, j int) bool { return rewards[i].Level < rewards[j].Level })
	l.RoleRewards = rewards

	if l.XPPerMessageMin < 0 {
		l.XPPerMessageMin = 0
	}
	if l.XPPerMessageMax < l.XPPerMessageMin {
		l.XPPerMessageMax = l.XPPerMessageMin
	}
	if l.CooldownSeconds < 0 {
		l.CooldownSeconds = 0
	}
	l.BlacklistedChannels = cleanList(l.BlacklistedChannels)
}

type AutoModSettings struct {
	AIEnabled           bool     `json:"aiEnabled"`
	WordFilterEnabled   bool     `json:"wordFilterEnabled"`
	WordBlacklist       []string `json:"wordBlacklist"`
	LinkFilterEnabled   bool     `json:"linkFilterEnabled"`
	LinkWhitelist       []string `json:"linkWhitelist"`
	InviteFilterEnabled bool     `json:"inviteFilterEnabled"`
	MentionSpamEnabled  bool     `json:"mentionSpamEnabled"`
	MentionSpamLimit    int      `json:"mentionSpamLimit"`
	IgnoreAdmins        bool     `json:"ignoreAdmins"`
}

func (*AutoModSettings) Key() string { return SectionAutoMod }

func (a *AutoModSettings) Normalize() {
	a.WordBlacklist = cleanList(a.WordBlacklist)
	a.LinkWhitelist = cleanList(a.LinkWhitelist)
	if a.MentionSpamLimit < 1 {
		a.MentionSpamLimit = 1
	}
}

// cleanList trims entries, drops blanks and duplicates, and never returns nil
// so an empty list serializes as [] rather than null.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
