package tasks_test

import (
	"testing"
	"time"

	queuestore "github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/app/system/tasks"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueueBacklogJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := time.Now().UTC().Add(-time.Hour)
	later := time.Now().UTC().Add(time.Hour)
	docs := []struct {
		coll   string
		status models.Status
		extra  bson.M
	}{
		{models.CollGiveaways, models.StatusRunning, bson.M{"endsAt": old}},
		// Still running before it ends; not stuck.
		{models.CollGiveaways, models.StatusRunning, bson.M{"endsAt": later}},
		{models.CollGiveaways, models.StatusEnded, bson.M{"endsAt": old}},
		{models.CollReactionRoles, models.StatusPending, nil},
		{models.CollScheduledMessages, models.StatusPending, bson.M{"nextRun": later}},
		{models.CollYoutubeSubscriptions, models.StatusRunning, nil},
	}
	for _, d := range docs {
		doc := bson.M{
			"_id":       primitive.NewObjectID(),
			"guildId":   testutil.GuildID,
			"status":    d.status,
			"createdAt": old,
			"updatedAt": old,
		}
		for k, v := range d.extra {
			doc[k] = v
		}
		_, err := db.Collection(d.coll).InsertOne(ctx, doc)
		require.NoError(t, err)
	}

	p := queuestore.NewProducer(db, zap.NewNop())
	backlog, err := tasks.ScanBacklog(ctx, p, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, backlog[models.FamilyGiveaway])
	assert.Equal(t, 1, backlog[models.FamilyReactionRole])
	assert.Equal(t, 0, backlog[models.FamilyScheduledMessage])
	_, hasYoutube := backlog[models.FamilyYoutube]
	assert.False(t, hasYoutube)

	core, logs := observer.New(zap.WarnLevel)
	job := tasks.QueueBacklogJob(p, zap.New(core), time.Minute, 10*time.Minute)
	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 2, logs.FilterMessage("stale commands waiting on the bot").Len())
}
