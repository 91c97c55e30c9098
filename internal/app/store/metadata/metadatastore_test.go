package metadatastore_test

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	metadatastore "github.com/dalemusser/guildhub/internal/app/store/metadata"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const guild = "111111111111111111"

func TestGet_Absent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := metadatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	md, err := store.Get(ctx, guild)
	require.NoError(t, err)
	assert.Nil(t, md)

	// A nil snapshot still answers lookups.
	assert.Equal(t, models.UnknownName, md.ChannelName("1"))
	assert.Equal(t, models.UnknownRoleName, md.RoleName("1"))
	assert.True(t, md.IsStale(time.Now(), time.Hour))
}

func TestGet_JSONStringData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := metadatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(models.CollServerMetadata).InsertOne(ctx, bson.M{
		"guildId": guild,
		"data":    `{"channels":[{"id":"c1","name":"general"},{"id":"c2","name":""}],"roles":[{"id":"r1","name":"Mods","color":16711680}]}`,
	})
	require.NoError(t, err)

	md, err := store.Get(ctx, guild)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, "general", md.ChannelName("c1"))
	assert.Equal(t, models.PendingName, md.ChannelName("c2"))
	assert.Equal(t, models.UnknownName, md.ChannelName("c3"))
	assert.Equal(t, "Mods", md.RoleName("r1"))
	assert.Equal(t, "#ff0000", md.Roles[0].HexColor())
	assert.Nil(t, md.SyncedAt)
}

func TestGet_MalformedData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := metadatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(models.CollServerMetadata).InsertOne(ctx, bson.M{"guildId": guild, "data": "{oops"})
	require.NoError(t, err)

	md, err := store.Get(ctx, guild)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Empty(t, md.Channels)
	assert.NotNil(t, md.Roles)
}

func TestPublish_SubDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := metadatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, store.Publish(ctx, guild,
		[]models.Channel{{ID: "c1", Name: "general"}},
		[]models.Role{{ID: "r1", Name: "Mods"}}))

	md, err := store.Get(ctx, guild)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, "general", md.ChannelName("c1"))
	require.NotNil(t, md.SyncedAt)
	assert.False(t, md.IsStale(time.Now(), time.Minute))
}

func TestFromDiscord(t *testing.T) {
	g := &discordgo.Guild{
		ID: guild,
		Channels: []*discordgo.Channel{
			{ID: "c1", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "c2", Name: "Voice", Type: discordgo.ChannelTypeGuildVoice},
			{ID: "c3", Name: "news", Type: discordgo.ChannelTypeGuildNews},
		},
		Roles: []*discordgo.Role{
			{ID: guild, Name: "@everyone", Position: 0},
			{ID: "r1", Name: "Member", Position: 1},
			{ID: "r2", Name: "Admin", Position: 5, Color: 0x5865F2},
		},
	}

	channels, roles := metadatastore.FromDiscord(g)
	assert.Equal(t, []models.Channel{{ID: "c1", Name: "general"}, {ID: "c3", Name: "news"}}, channels)
	require.Len(t, roles, 2)
	assert.Equal(t, "Admin", roles[0].Name)
	assert.Equal(t, "#5865f2", roles[0].HexColor())
}
