package moderationstore_test

import (
	"errors"
	"testing"
	"time"

	moderationstore "github.com/dalemusser/guildhub/internal/app/store/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const guild = "111111111111111111"

func validAction() models.ModerationAction {
	return models.ModerationAction{
		GuildID:        guild,
		TargetUserID:   "222222222222222222",
		TargetUsername: "  troublemaker ",
		ActionType:     models.ModerationBan,
		Reason:         "spam",
		InitiatorID:    "333333333333333333",
	}
}

func TestQueue_Inserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := moderationstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, store.Queue(ctx, validAction()))

	var got models.ModerationAction
	require.NoError(t, db.Collection(models.CollModerationQueue).FindOne(ctx, bson.M{"guildId": guild}).Decode(&got))
	assert.Equal(t, "troublemaker", got.TargetUsername)
	assert.Equal(t, models.ModerationBan, got.ActionType)
	assert.False(t, got.CreatedAt.IsZero())

	n, err := store.Pending(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestQueue_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := moderationstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name  string
		mut   func(a *models.ModerationAction)
		field string
	}{
		{"unknown action", func(a *models.ModerationAction) { a.ActionType = "mute" }, "actionType"},
		{"bad target", func(a *models.ModerationAction) { a.TargetUserID = "abc" }, "targetUserId"},
		{"blank username", func(a *models.ModerationAction) { a.TargetUsername = "   " }, "targetUsername"},
		{"no initiator", func(a *models.ModerationAction) { a.InitiatorID = "" }, "initiatorId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAction()
			tt.mut(&a)
			err := store.Queue(ctx, a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, inputval.ErrValidation))

			var verrs *inputval.Errors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, f := range verrs.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected error on %s, got %+v", tt.field, verrs.Fields)
		})
	}

	n, err := store.Pending(ctx, guild)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCorrelationWindow(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := moderationstore.CorrelationWindow(validAction(), at, 0)

	assert.Equal(t, guild, f["guildId"])
	assert.Equal(t, "222222222222222222", f["userId"])
	ts := f["timestamp"].(bson.M)
	assert.Equal(t, at.Add(-moderationstore.DefaultCorrelationWindow), ts["$gte"])
	assert.Equal(t, at.Add(moderationstore.DefaultCorrelationWindow), ts["$lte"])
}
