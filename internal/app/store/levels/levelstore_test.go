package levelstore_test

import (
	"fmt"
	"testing"

	levelstore "github.com/dalemusser/guildhub/internal/app/store/levels"
	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guild = "111111111111111111"

func TestLeaderboard_OrderAndCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := levelstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	docs := []any{
		models.UserLevel{GuildID: guild, UserID: "b", Level: 3, XP: 500},
		models.UserLevel{GuildID: guild, UserID: "a", Level: 3, XP: 500},
		models.UserLevel{GuildID: guild, UserID: "c", Level: 5, XP: 10},
		models.UserLevel{GuildID: guild, UserID: "d", Level: 3, XP: 900},
		models.UserLevel{GuildID: "999999999999999999", UserID: "z", Level: 99, XP: 1},
	}
	for i := 0; i < leveling.LeaderboardSize; i++ {
		docs = append(docs, models.UserLevel{GuildID: guild, UserID: fmt.Sprintf("low%03d", i), Level: 0, XP: i})
	}
	_, err := db.Collection(models.CollUserLevels).InsertMany(ctx, docs)
	require.NoError(t, err)

	rows, err := store.Leaderboard(ctx, guild)
	require.NoError(t, err)
	require.Len(t, rows, leveling.LeaderboardSize)

	var top []string
	for _, r := range rows[:4] {
		top = append(top, r.UserID)
	}
	assert.Equal(t, []string{"c", "d", "a", "b"}, top)
	assert.Equal(t, "low099", rows[4].UserID)
}

func TestLeaderboard_EmptyGuild(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := levelstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rows, err := store.Leaderboard(ctx, guild)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
