package scheduledstore_test

import (
	"errors"
	"testing"
	"time"

	scheduledstore "github.com/dalemusser/guildhub/internal/app/store/scheduled"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	guild   = "111111111111111111"
	channel = "222222222222222222"
)

func TestUpdate_ReArms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scheduledstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	_, err := db.Collection(models.CollScheduledMessages).InsertOne(ctx, models.ScheduledMessage{
		ID: id, GuildID: guild, ChannelID: channel, Content: "old",
		Repeat: models.RepeatNone, Status: models.StatusSent, NextRun: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	next := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
	got, err := store.Update(ctx, models.ScheduledMessage{
		ID: id, GuildID: guild, ChannelID: channel, Content: "new", NextRun: next,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, models.RepeatNone, got.Repeat)
	assert.True(t, got.NextRun.Equal(next))
	assert.True(t, got.Schedule.Equal(next))

	list, err := store.List(ctx, guild)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUpdate_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scheduledstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Update(ctx, models.ScheduledMessage{
		ID: primitive.NewObjectID(), GuildID: guild, ChannelID: channel, Content: "x", NextRun: time.Now(),
	})
	assert.ErrorIs(t, err, scheduledstore.ErrNotFound)

	_, err = store.Update(ctx, models.ScheduledMessage{ID: primitive.NewObjectID(), GuildID: guild, ChannelID: channel})
	assert.True(t, errors.Is(err, inputval.ErrValidation))
}
