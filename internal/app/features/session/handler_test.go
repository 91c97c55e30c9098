package session_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/session"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *session.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	return session.NewHandler(sm, zap.NewNop())
}

func TestServeMe(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeMe(rec, testutil.NewRequest(http.MethodGet, "/api/me"))
	assert.JSONEq(t, `{"isAuthenticated":false,"id":"","name":"","guilds":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeMe(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/me"), testutil.GuildAdmin(testutil.GuildID)))
	var out struct {
		IsAuthenticated bool     `json:"isAuthenticated"`
		Guilds          []string `json:"guilds"`
	}
	testutil.DecodeJSON(t, rec, &out)
	assert.True(t, out.IsAuthenticated)
	assert.Equal(t, []string{testutil.GuildID}, out.Guilds)
}

func TestDevLogin_RoundTrip(t *testing.T) {
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	h := session.NewHandler(sm, zap.NewNop())

	body := map[string]any{"id": testutil.UserID, "name": "Dev", "guilds": []string{testutil.GuildID, "nope"}}
	rec := httptest.NewRecorder()
	h.HandleDevLogin(rec, testutil.NewJSONRequest(t, http.MethodPost, "/dev/session", body))
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := testutil.NewRequest(http.MethodGet, "/api/me")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	sm.LoadSessionUser(http.HandlerFunc(h.ServeMe)).ServeHTTP(rec, req)

	var out struct {
		IsAuthenticated bool     `json:"isAuthenticated"`
		ID              string   `json:"id"`
		Guilds          []string `json:"guilds"`
	}
	testutil.DecodeJSON(t, rec, &out)
	assert.True(t, out.IsAuthenticated)
	assert.Equal(t, testutil.UserID, out.ID)
	assert.Equal(t, []string{testutil.GuildID}, out.Guilds)
}

func TestDevLogin_RejectsBadID(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.HandleDevLogin(rec, testutil.NewJSONRequest(t, http.MethodPost, "/dev/session", map[string]any{"id": "bob"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
