package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
)

// TestUser represents a signed-in dashboard user for handler tests.
type TestUser struct {
	ID     string
	Name   string
	Guilds []string
}

// GuildAdmin returns a TestUser who manages the given guilds.
func GuildAdmin(guildIDs ...string) TestUser {
	return TestUser{ID: UserID, Name: "Test Admin", Guilds: guildIDs}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:     user.ID,
		Name:   user.Name,
		Guilds: user.Guilds,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader = http.NoBody
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// GuildRequest is a request by an admin of guildID with the guild route
// parameter already set.
func GuildRequest(t *testing.T, method, target, guildID string, body any) *http.Request {
	t.Helper()
	req := NewJSONRequest(t, method, target, body)
	req = WithUser(req, GuildAdmin(guildID))
	return WithChiURLParam(req, authz.GuildParam, guildID)
}

// DecodeJSON decodes a recorded response body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
