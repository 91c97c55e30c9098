package logs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/logs"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	now := time.Now().UTC()
	fx.CreateAuditEntry(ctx, testutil.GuildID, models.LogUserJoined, testutil.UserID, now.Add(-time.Hour))
	fx.CreateAuditEntry(ctx, testutil.GuildID, models.LogUserBanned, testutil.UserID, now)

	logger := zap.NewNop()
	h := logs.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	type body struct {
		Entries []models.AuditLogEntry `json:"entries"`
	}

	rec := httptest.NewRecorder()
	h.ServeAudit(rec, testutil.GuildRequest(t, http.MethodGet, "/audit", testutil.GuildID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var all body
	testutil.DecodeJSON(t, rec, &all)
	require.Len(t, all.Entries, 2)
	assert.Equal(t, models.LogUserBanned, all.Entries[0].Type)

	rec = httptest.NewRecorder()
	h.ServeAudit(rec, testutil.GuildRequest(t, http.MethodGet, "/audit?type=user_joined", testutil.GuildID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var joined body
	testutil.DecodeJSON(t, rec, &joined)
	require.Len(t, joined.Entries, 1)
	assert.Equal(t, models.LogUserJoined, joined.Entries[0].Type)
}

func TestServeCommands_EmptyIsList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := logs.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	rec := httptest.NewRecorder()
	h.ServeCommands(rec, testutil.GuildRequest(t, http.MethodGet, "/commands", testutil.GuildID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())
}
