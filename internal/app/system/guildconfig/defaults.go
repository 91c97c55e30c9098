// Package guildconfig resolves stored guild settings documents into typed
// settings. Each section is merged over an injectable default so that
// missing, malformed or older documents always resolve to a complete value.
package guildconfig

import "github.com/dalemusser/guildhub/internal/domain/models"

// Defaults holds the default value of every section. It is plain data;
// Resolve never mutates it.
type Defaults struct {
	Welcome  models.WelcomeSettings
	Goodbye  models.GoodbyeSettings
	AutoRole models.AutoRoleSettings
	Leveling models.LevelingSettings
	AutoMod  models.AutoModSettings
}

// Builtin returns the defaults the bot was built against.
func Builtin() Defaults {
	return Defaults{
		Welcome: models.WelcomeSettings{
			Enabled: true,
			Message: "Welcome to the server, {user}! Enjoy your stay.",
		},
		Goodbye: models.GoodbyeSettings{
			Enabled: false,
			Message: "{user} has left the server.",
		},
		AutoRole: models.AutoRoleSettings{},
		Leveling: models.LevelingSettings{
			Enabled:             true,
			Message:             "🎉 GG {user}, you just reached level **{level}**!",
			RoleRewards:         []models.RoleReward{},
			XPPerMessageMin:     15,
			XPPerMessageMax:     25,
			CooldownSeconds:     60,
			BlacklistedChannels: []string{},
		},
		AutoMod: models.AutoModSettings{
			WordBlacklist:    []string{},
			LinkWhitelist:    []string{},
			MentionSpamLimit: 5,
			IgnoreAdmins:     true,
		},
	}
}

// For returns a fully defaulted settings value for a guild with nothing stored.
func (d Defaults) For(guildID string) models.GuildSettings {
	return d.Resolve(Document{GuildID: guildID})
}

// clone copies the slice fields so callers cannot alias the table.
func (d Defaults) clone() Defaults {
	c := d
	c.Leveling.RoleRewards = append([]models.RoleReward{}, d.Leveling.RoleRewards...)
	c.Leveling.BlacklistedChannels = append([]string{}, d.Leveling.BlacklistedChannels...)
	c.AutoMod.WordBlacklist = append([]string{}, d.AutoMod.WordBlacklist...)
	c.AutoMod.LinkWhitelist = append([]string{}, d.AutoMod.LinkWhitelist...)
	return c
}
