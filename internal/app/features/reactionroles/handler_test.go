package reactionroles_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/features/reactionroles"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestCreateRepostAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := reactionroles.NewHandler(db, &submitguard.Guard{}, uierrors.NewErrorLogger(logger), logger)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.GuildRequest(t, http.MethodPost, "/", testutil.GuildID, map[string]any{
		"channelId":  testutil.ChannelID,
		"embedTitle": "Pick a colour",
		"roles":      []map[string]string{{"emoji": "🔴", "roleId": testutil.RoleID}},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rr models.ReactionRole
	testutil.DecodeJSON(t, rec, &rr)
	assert.Equal(t, models.StatusPending, rr.Status)
	assert.Equal(t, models.DefaultEmbedColor, rr.EmbedColor)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The bot posts the embed.
	_, err := db.Collection(models.CollReactionRoles).UpdateOne(ctx, bson.M{"_id": rr.ID},
		bson.M{"$set": bson.M{"status": models.StatusSent, "messageId": "555555555555555555"}})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.GuildRequest(t, http.MethodGet, "/?messageId=555555555555555555", testutil.GuildID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pick a colour")

	req := testutil.WithChiURLParam(testutil.GuildRequest(t, http.MethodPost, "/", testutil.GuildID, nil), "id", rr.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleRepost(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored models.ReactionRole
	require.NoError(t, db.Collection(models.CollReactionRoles).FindOne(ctx, bson.M{"_id": rr.ID}).Decode(&stored))
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.PendingMessageID, stored.MessageID)
}

func TestCreate_NeedsRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := reactionroles.NewHandler(db, &submitguard.Guard{}, uierrors.NewErrorLogger(logger), logger)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.GuildRequest(t, http.MethodPost, "/", testutil.GuildID, map[string]any{
		"channelId":  testutil.ChannelID,
		"embedTitle": "Empty",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
