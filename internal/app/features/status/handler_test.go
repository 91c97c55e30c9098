package status_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/status"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, h *status.Handler) status.BotStatus {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeStatus(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/status"), testutil.GuildAdmin()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st status.BotStatus
	testutil.DecodeJSON(t, rec, &st)
	return st
}

func TestServeStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := status.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	st := serve(t, h)
	assert.False(t, st.Online)
	assert.Nil(t, st.Bot)
	assert.Nil(t, st.LastSeen)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.Heartbeat(ctx, time.Now().UTC().Add(-2*time.Minute))
	assert.False(t, serve(t, h).Online)

	fx.Heartbeat(ctx, time.Now().UTC().Add(-5*time.Second))
	st = serve(t, h)
	assert.True(t, st.Online)
	require.NotNil(t, st.LastSeen)
}
