package reactionrolestore_test

import (
	"testing"
	"time"

	reactionrolestore "github.com/dalemusser/guildhub/internal/app/store/reactionroles"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const guild = "111111111111111111"

func TestList_DecodesStringRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reactionrolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(models.CollReactionRoles).InsertMany(ctx, []any{
		bson.M{"guildId": guild, "embedTitle": "old", "messageId": "m1", "status": "sent",
			"roles": `[{"emoji":"🔴","roleId":"333333333333333333"}]`, "createdAt": time.Now().Add(-time.Hour)},
		bson.M{"guildId": guild, "embedTitle": "new", "messageId": "pending", "status": "pending",
			"roles": bson.A{bson.M{"emoji": "🟢", "roleId": "444444444444444444"}}, "createdAt": time.Now()},
	})
	require.NoError(t, err)

	got, err := store.List(ctx, guild)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].EmbedTitle)
	assert.False(t, got[0].Posted())
	require.Len(t, got[1].Roles, 1)
	assert.Equal(t, "333333333333333333", got[1].Roles[0].RoleID)

	rr, err := store.ByMessage(ctx, guild, "m1")
	require.NoError(t, err)
	assert.Equal(t, "old", rr.EmbedTitle)
	assert.True(t, rr.Posted())

	_, err = store.ByMessage(ctx, guild, "nope")
	assert.ErrorIs(t, err, reactionrolestore.ErrNotFound)
}
