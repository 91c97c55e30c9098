// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits). AppConfig is everything specific to
// GuildHub: the shared MongoDB the bot also uses, the session cookie the
// identity provider writes, and the knobs of the queue protocol.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string shared with the bot
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool

	// Session management configuration
	SessionKey    string        // Secret the identity provider signs cookies with
	SessionName   string        // Cookie name (default: guildhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Write protection
	WriteRatePerMinute int // Mutating requests allowed per user per minute
	WriteBurst         int // Requests allowed back to back before the rate applies

	// Queue protocol
	StaleGrace           time.Duration // Non-terminal resources older than this are reported
	BacklogCheckInterval time.Duration // How often the backlog monitor runs (0 disables it)
	MetadataStaleAfter   time.Duration // Metadata snapshots older than this are flagged

	// Store operation timeouts
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
}
