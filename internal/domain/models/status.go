// internal/domain/models/status.go
package models

// Status is the lifecycle state of a bot-managed resource. The dashboard
// writes the initial and re-armed states; the bot writes the outcomes.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSent    Status = "sent"
	StatusEnded   Status = "ended"
	StatusError   Status = "error"
)

// Terminal reports whether the bot has finished with the resource.
// A terminal resource is never picked up again unless it is re-armed.
func (s Status) Terminal() bool {
	switch s {
	case StatusSent, StatusEnded, StatusError:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusSent, StatusEnded, StatusError:
		return true
	}
	return false
}

// NonTerminalStatuses lists the statuses the bot treats as actionable.
func NonTerminalStatuses() []Status {
	return []Status{StatusPending, StatusRunning}
}

// TerminalStatuses lists the statuses the bot writes when it is done.
func TerminalStatuses() []Status {
	return []Status{StatusSent, StatusEnded, StatusError}
}

// Family names a kind of bot command. Each family has its own main
// collection, queue collection and status rules.
type Family string

const (
	FamilyModeration       Family = "moderation"
	FamilyReactionRole     Family = "reaction-role"
	FamilyGiveaway         Family = "giveaway"
	FamilyScheduledMessage Family = "scheduled-message"
	FamilyYoutube          Family = "youtube"
)

// Families lists every family that owns a main resource document.
// Moderation is excluded: its queue item is the whole intent.
func Families() []Family {
	return []Family{FamilyReactionRole, FamilyGiveaway, FamilyScheduledMessage, FamilyYoutube}
}

// ParseFamily maps a user-supplied name to a Family.
func ParseFamily(s string) (Family, bool) {
	switch Family(s) {
	case FamilyModeration, FamilyReactionRole, FamilyGiveaway, FamilyScheduledMessage, FamilyYoutube:
		return Family(s), true
	}
	return "", false
}
