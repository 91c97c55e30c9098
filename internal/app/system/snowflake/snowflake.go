// internal/app/system/snowflake/snowflake.go
package snowflake

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// discordEpoch is the first instant a snowflake can encode.
var discordEpoch = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// Valid reports whether id looks like a Discord snowflake: 17 to 20 digits
// encoding a time after the Discord epoch.
func Valid(id string) bool {
	if len(id) < 17 || len(id) > 20 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	ts, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return false
	}
	return !ts.Before(discordEpoch)
}

// CreatedAt returns the creation time encoded in id.
func CreatedAt(id string) (time.Time, bool) {
	if !Valid(id) {
		return time.Time{}, false
	}
	ts, err := discordgo.SnowflakeTimestamp(strings.TrimSpace(id))
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
