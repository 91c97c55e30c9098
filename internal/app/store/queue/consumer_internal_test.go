package queue

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func insertSentMessage(t *testing.T, ctx context.Context, c *Consumer) primitive.ObjectID {
	t.Helper()
	id := primitive.NewObjectID()
	now := time.Now().UTC()
	_, err := c.db.Collection(models.CollScheduledMessages).InsertOne(ctx, bson.M{
		"_id":       id,
		"guildId":   testutil.GuildID,
		"channelId": testutil.ChannelID,
		"content":   "daily reminder",
		"repeat":    models.RepeatDaily,
		"status":    models.StatusSent,
		"nextRun":   now,
		"createdAt": now,
		"updatedAt": now,
	})
	require.NoError(t, err)
	return id
}

// changeBeforeWrite runs change after Reschedule has read the status and
// before it writes.
func changeBeforeWrite(c *Consumer, change func()) {
	c.now = func() time.Time {
		change()
		return time.Now().UTC()
	}
}

func TestReschedule_DeletedBeforeWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := NewConsumer(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertSentMessage(t, ctx, c)
	changeBeforeWrite(c, func() {
		_, err := db.Collection(models.CollScheduledMessages).DeleteOne(ctx, bson.M{"_id": id})
		require.NoError(t, err)
	})

	_, err := c.Reschedule(ctx, id, time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReschedule_StatusChangedBeforeWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := NewConsumer(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertSentMessage(t, ctx, c)
	changeBeforeWrite(c, func() {
		_, err := db.Collection(models.CollScheduledMessages).UpdateOne(ctx,
			bson.M{"_id": id}, bson.M{"$set": bson.M{"status": models.StatusError}})
		require.NoError(t, err)
	})

	st, err := c.Reschedule(ctx, id, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, st)

	var m models.ScheduledMessage
	require.NoError(t, db.Collection(models.CollScheduledMessages).FindOne(ctx, bson.M{"_id": id}).Decode(&m))
	assert.Nil(t, m.LastRun)
}
