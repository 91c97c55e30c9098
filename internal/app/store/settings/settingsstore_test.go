package settingsstore_test

import (
	"errors"
	"sync"
	"testing"

	settingsstore "github.com/dalemusser/guildhub/internal/app/store/settings"
	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/dalemusser/guildhub/internal/app/system/leveling"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guild = "111111111111111111"

func uniqueGuildIndex(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := db.Collection(models.CollServerSettings).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guildId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)
}

func TestLoad_CreatesDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.Load(ctx, guild)
	require.NoError(t, err)

	want := guildconfig.Builtin().For(guild)
	assert.Equal(t, want.Welcome, got.Welcome)
	assert.Equal(t, want.Leveling, got.Leveling)
	assert.Equal(t, want.AutoMod, got.AutoMod)
	assert.False(t, got.ID.IsZero())

	// The document exists with every section stored as a JSON string.
	var raw bson.M
	require.NoError(t, db.Collection(models.CollServerSettings).FindOne(ctx, bson.M{"guildId": guild}).Decode(&raw))
	for _, key := range []string{models.SectionWelcome, models.SectionGoodbye, models.SectionAutoRole, models.SectionLeveling, models.SectionAutoMod} {
		_, isString := raw[key].(string)
		assert.True(t, isString, "%s should be a JSON string", key)
	}
}

func TestLoad_RequiresGuild(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, settingsstore.ErrGuildRequired)
}

func TestLoad_ConcurrentFirstLoadsConverge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	uniqueGuildIndex(t, db)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Load(ctx, guild)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	n, err := db.Collection(models.CollServerSettings).CountDocuments(ctx, bson.M{"guildId": guild})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoad_MergesStoredSections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(models.CollServerSettings).InsertOne(ctx, bson.M{
		"guildId":          guild,
		"welcomeSettings":  `{"enabled":false}`,
		"levelingSettings": `{"xpPerMessageMin":"10","cooldownSeconds":""}`,
		"autoModSettings":  `not json`,
	})
	require.NoError(t, err)

	got, err := store.Load(ctx, guild)
	require.NoError(t, err)

	def := guildconfig.Builtin()
	assert.False(t, got.Welcome.Enabled)
	assert.Equal(t, def.Welcome.Message, got.Welcome.Message)
	assert.Equal(t, 10, got.Leveling.XPPerMessageMin)
	assert.Equal(t, def.Leveling.CooldownSeconds, got.Leveling.CooldownSeconds)
	assert.Equal(t, def.AutoMod, got.AutoMod)
}

func TestSave_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s, err := store.Load(ctx, guild)
	require.NoError(t, err)
	s.Welcome.ChannelID = "222222222222222222"
	s.Welcome.Message = "hi {user} <3"
	s.AutoMod.WordBlacklist = []string{"bad", " bad ", "worse"}

	saved, err := store.Save(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "222222222222222222", saved.Welcome.ChannelID)
	assert.Equal(t, "hi {user} <3", saved.Welcome.Message)
	assert.Equal(t, []string{"bad", "worse"}, saved.AutoMod.WordBlacklist)
	require.NotNil(t, saved.UpdatedAt)

	// Saving the resolved value again changes nothing.
	again, err := store.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.Welcome, again.Welcome)
	assert.Equal(t, saved.AutoMod, again.AutoMod)
	assert.Equal(t, saved.Leveling, again.Leveling)
}

func TestSave_WithoutPriorLoad(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := guildconfig.Builtin().For(guild)
	s.AutoRole = models.AutoRoleSettings{Enabled: true, RoleID: "333333333333333333"}

	saved, err := store.Save(ctx, s)
	require.NoError(t, err)
	assert.True(t, saved.AutoRole.Enabled)
	assert.False(t, saved.ID.IsZero())
}

func TestRoleRewards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, guildconfig.Builtin())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.AddRoleReward(ctx, guild, models.RoleReward{Level: 10, RoleID: "444444444444444444"})
	require.NoError(t, err)
	s, err := store.AddRoleReward(ctx, guild, models.RoleReward{Level: 5, RoleID: "555555555555555555"})
	require.NoError(t, err)
	require.Len(t, s.Leveling.RoleRewards, 2)
	assert.Equal(t, 5, s.Leveling.RoleRewards[0].Level)

	// Duplicate level is rejected and nothing changes.
	_, err = store.AddRoleReward(ctx, guild, models.RoleReward{Level: 10, RoleID: "666666666666666666"})
	assert.True(t, errors.Is(err, leveling.ErrDuplicateLevel))
	s, err = store.Load(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, "444444444444444444", s.Leveling.RoleRewards[1].RoleID)

	s, err = store.RemoveRoleReward(ctx, guild, 10)
	require.NoError(t, err)
	assert.Len(t, s.Leveling.RoleRewards, 1)

	s, err = store.RemoveRoleReward(ctx, guild, 99)
	require.NoError(t, err)
	assert.Len(t, s.Leveling.RoleRewards, 1)
}
