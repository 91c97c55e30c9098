// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GuildHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: GUILDHUB_MONGO_URI, GUILDHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (shared with the bot)"},
	{Name: "mongo_database", Default: "guildhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must match the identity provider)"},
	{Name: "session_name", Default: "guildhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "168h", Desc: "Session cookie lifetime"},

	// Write protection
	{Name: "write_rate_per_minute", Default: 60, Desc: "Mutating requests allowed per user per minute"},
	{Name: "write_burst", Default: 10, Desc: "Mutating requests allowed back to back"},

	// Queue protocol
	{Name: "stale_grace", Default: "15m", Desc: "Age after which a pending/running command is reported as stale"},
	{Name: "backlog_check_interval", Default: "5m", Desc: "How often to scan for stale commands (0 disables)"},
	{Name: "metadata_stale_after", Default: "15m", Desc: "Age after which cached channels/roles are flagged stale"},

	// Store timeouts
	{Name: "timeout_read", Default: "10s", Desc: "Timeout for read operations"},
	{Name: "timeout_write", Default: "10s", Desc: "Timeout for write operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, GUILDHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GUILDHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 7*24*time.Hour),

		WriteRatePerMinute: appValues.Int("write_rate_per_minute"),
		WriteBurst:         appValues.Int("write_burst"),

		StaleGrace:           appValues.Duration("stale_grace", 15*time.Minute),
		BacklogCheckInterval: appValues.Duration("backlog_check_interval", 5*time.Minute),
		MetadataStaleAfter:   appValues.Duration("metadata_stale_after", 15*time.Minute),

		TimeoutRead:  appValues.Duration("timeout_read", 10*time.Second),
		TimeoutWrite: appValues.Duration("timeout_write", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// GuildHub validates the MongoDB URI format to catch configuration errors
// before attempting to connect, and refuses the built-in session key in
// production since it would let anyone mint sessions.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be changed from the development default in prod")
	}
	if appCfg.WriteRatePerMinute < 1 {
		return fmt.Errorf("write_rate_per_minute must be at least 1, got %d", appCfg.WriteRatePerMinute)
	}
	if appCfg.StaleGrace <= 0 {
		return fmt.Errorf("stale_grace must be positive, got %s", appCfg.StaleGrace)
	}
	return nil
}

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
