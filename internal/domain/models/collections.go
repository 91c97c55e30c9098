// internal/domain/models/collections.go
package models

// Collection names shared with the bot. Renaming any of these breaks the
// contract with the bot process.
const (
	CollServerSettings = "server_settings"
	CollServerMetadata = "server_metadata"
	CollServers        = "servers"
	CollServerStats    = "server_stats"
	CollBotInfo        = "bot_info"
	CollSystemStatus   = "system_status"

	CollModerationQueue = "moderation_queue"

	CollReactionRoles     = "reaction_roles"
	CollReactionRoleQueue = "reaction_role_queue"

	CollGiveaways     = "giveaways"
	CollGiveawayQueue = "giveaway_queue"

	CollScheduledMessages     = "scheduled_messages"
	CollScheduledMessageQueue = "scheduled_message_queue"

	CollYoutubeSubscriptions = "youtube_subscriptions"
	CollCustomCommands       = "custom_commands"
	CollUserLevels           = "user_levels"
	CollMembers              = "members"
	CollAuditLogs            = "audit_logs"
	CollCommandLogs          = "command_logs"
)
