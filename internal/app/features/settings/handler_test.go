package settings_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/settings"
	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *settings.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return settings.NewHandler(db, guildconfig.Builtin(), uierrors.NewErrorLogger(logger), logger)
}

func load(t *testing.T, h *settings.Handler) models.GuildSettings {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeSettings(rec, testutil.GuildRequest(t, http.MethodGet, "/", testutil.GuildID, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s models.GuildSettings
	testutil.DecodeJSON(t, rec, &s)
	return s
}

func TestServeSettings_SeedsDefaults(t *testing.T) {
	h := newTestHandler(t)

	s := load(t, h)
	def := guildconfig.Builtin()
	assert.Equal(t, testutil.GuildID, s.GuildID)
	assert.Equal(t, def.Welcome.Message, s.Welcome.Message)
	assert.Equal(t, 5, s.AutoMod.MentionSpamLimit)
	assert.Empty(t, s.Leveling.RoleRewards)
}

func TestHandleSave_SanitizesAndIgnoresBodyGuild(t *testing.T) {
	h := newTestHandler(t)

	s := load(t, h)
	s.GuildID = testutil.OtherID
	s.Welcome.Message = "<b>Hi</b> {user}"
	s.AutoMod.WordFilterEnabled = true
	s.AutoMod.WordBlacklist = []string{" spam ", "spam", ""}

	rec := httptest.NewRecorder()
	h.HandleSave(rec, testutil.GuildRequest(t, http.MethodPut, "/", testutil.GuildID, s))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := load(t, h)
	assert.Equal(t, testutil.GuildID, got.GuildID)
	assert.Equal(t, "Hi {user}", got.Welcome.Message)
	assert.True(t, got.AutoMod.WordFilterEnabled)
	assert.Equal(t, []string{"spam"}, got.AutoMod.WordBlacklist)
}

func TestRewards(t *testing.T) {
	h := newTestHandler(t)

	add := func(level int, role string) int {
		rec := httptest.NewRecorder()
		body := models.RoleReward{Level: level, RoleID: role}
		h.HandleAddReward(rec, testutil.GuildRequest(t, http.MethodPost, "/rewards", testutil.GuildID, body))
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, add(10, testutil.RoleID))
	assert.Equal(t, http.StatusOK, add(5, testutil.RoleID))
	assert.Equal(t, http.StatusConflict, add(10, testutil.RoleID))
	assert.Equal(t, http.StatusBadRequest, add(0, testutil.RoleID))

	s := load(t, h)
	require.Len(t, s.Leveling.RoleRewards, 2)
	assert.Equal(t, 5, s.Leveling.RoleRewards[0].Level)

	req := testutil.GuildRequest(t, http.MethodDelete, "/", testutil.GuildID, nil)
	rec := httptest.NewRecorder()
	h.HandleRemoveReward(rec, testutil.WithChiURLParam(req, "level", "5"))
	require.Equal(t, http.StatusOK, rec.Code)

	s = load(t, h)
	require.Len(t, s.Leveling.RoleRewards, 1)
	assert.Equal(t, 10, s.Leveling.RoleRewards[0].Level)

	req = testutil.GuildRequest(t, http.MethodDelete, "/", testutil.GuildID, nil)
	rec = httptest.NewRecorder()
	h.HandleRemoveReward(rec, testutil.WithChiURLParam(req, "level", "abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
