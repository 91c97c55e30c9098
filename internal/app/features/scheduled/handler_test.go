package scheduled_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/scheduled"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestCreateThenEditReArms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := scheduled.NewHandler(db, &submitguard.Guard{}, uierrors.NewErrorLogger(logger), logger)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.GuildRequest(t, http.MethodPost, "/", testutil.GuildID, map[string]any{
		"channelId": testutil.ChannelID,
		"content":   "Weekly reminder",
		"nextRun":   time.Now().Add(time.Hour),
		"repeat":    "Weekly",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var m models.ScheduledMessage
	testutil.DecodeJSON(t, rec, &m)
	assert.Equal(t, models.RepeatWeekly, m.Repeat)
	assert.Equal(t, models.StatusPending, m.Status)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := db.Collection(models.CollScheduledMessages).UpdateOne(ctx, bson.M{"_id": m.ID},
		bson.M{"$set": bson.M{"status": models.StatusSent}})
	require.NoError(t, err)

	req := testutil.GuildRequest(t, http.MethodPut, "/", testutil.GuildID, map[string]any{
		"channelId": testutil.ChannelID,
		"content":   "Edited",
		"nextRun":   time.Now().Add(2 * time.Hour),
	})
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out models.ScheduledMessage
	testutil.DecodeJSON(t, rec, &out)
	assert.Equal(t, "Edited", out.Content)
	assert.Equal(t, models.StatusPending, out.Status)
	assert.Equal(t, models.RepeatNone, out.Repeat)
}

func TestCreate_RejectsPastAndBadRepeat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := scheduled.NewHandler(db, &submitguard.Guard{}, uierrors.NewErrorLogger(logger), logger)

	for _, body := range []map[string]any{
		{"channelId": testutil.ChannelID, "content": "x", "nextRun": time.Now().Add(-time.Hour)},
		{"channelId": testutil.ChannelID, "content": "x", "nextRun": time.Now().Add(time.Hour), "repeat": "hourly"},
	} {
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, testutil.GuildRequest(t, http.MethodPost, "/", testutil.GuildID, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}
