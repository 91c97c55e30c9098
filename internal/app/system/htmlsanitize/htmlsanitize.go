// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText strips every HTML element from s and returns plain text with
// entities decoded, so Discord markdown and template placeholders such as
// {user} and **{level}** pass through unchanged.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(policy().Sanitize(s))
	return strings.TrimSpace(out)
}
