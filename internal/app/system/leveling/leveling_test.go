package leveling

import (
	"testing"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 155},
		{2, 220},
		{3, 295},
		{10, 1100},
	}
	for _, tt := range tests {
		if got := TotalXPForLevel(tt.level); got != tt.want {
			t.Errorf("TotalXPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestTotalXPForLevel_MonotonicAndConvex(t *testing.T) {
	prevInc := -1
	for level := 0; level < 500; level++ {
		cur, next := TotalXPForLevel(level), TotalXPForLevel(level+1)
		if next <= cur {
			t.Fatalf("curve not increasing at level %d: %d -> %d", level, cur, next)
		}
		inc := next - cur
		if inc < prevInc {
			t.Fatalf("increment shrank at level %d: %d < %d", level, inc, prevInc)
		}
		prevInc = inc
	}
}

func TestProgressFor_Level1(t *testing.T) {
	p := ProgressFor(1, 180)
	assert.Equal(t, 25, p.XPInLevel)
	assert.Equal(t, 65, p.XPNeeded)
	assert.Equal(t, 38, p.Percent)
}

func TestProgressFor_Bounds(t *testing.T) {
	for level := 0; level < 60; level++ {
		base := TotalXPForLevel(level)
		next := TotalXPForLevel(level + 1)
		for _, xp := range []int{base, base + 1, (base + next) / 2, next - 1, next, next + 1000} {
			p := ProgressFor(level, xp)
			if p.Percent < 0 || p.Percent > 100 {
				t.Fatalf("level %d xp %d: percent %d out of range", level, xp, p.Percent)
			}
			if xp >= next && p.Percent != 100 {
				t.Fatalf("level %d xp %d: percent %d, want 100", level, xp, p.Percent)
			}
		}
	}
}

func TestProgressFor_BelowBaseClampsToZero(t *testing.T) {
	// Stale rows can have xp below the level floor.
	p := ProgressFor(5, 10)
	assert.Equal(t, 0, p.Percent)
	assert.Negative(t, p.XPInLevel)
}

func TestProgressFor_Rounds(t *testing.T) {
	tests := []struct {
		level, xp, want int
	}{
		{0, 0, 0},
		{0, 1, 1},         // 0.645
		{1, 155 + 32, 49}, // 49.23
		{1, 155 + 33, 51}, // 50.77
	}
	for _, tt := range tests {
		if got := ProgressFor(tt.level, tt.xp).Percent; got != tt.want {
			t.Errorf("ProgressFor(%d, %d).Percent = %d, want %d", tt.level, tt.xp, got, tt.want)
		}
	}
}

func TestSortLeaderboard(t *testing.T) {
	rows := []models.UserLevel{
		{UserID: "c", Level: 2, XP: 230},
		{UserID: "a", Level: 3, XP: 300},
		{UserID: "b", Level: 2, XP: 250},
		{UserID: "d", Level: 2, XP: 230},
	}
	got := SortLeaderboard(rows)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.UserID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestSortLeaderboard_Truncates(t *testing.T) {
	rows := make([]models.UserLevel, LeaderboardSize+25)
	for i := range rows {
		rows[i] = models.UserLevel{UserID: string(rune('a' + i%26)), Level: i}
	}
	got := SortLeaderboard(rows)
	require.Len(t, got, LeaderboardSize)
	assert.Equal(t, LeaderboardSize+24, got[0].Level)
}

func TestRewards_InsertKeepsOrder(t *testing.T) {
	var rs Rewards
	var err error
	for _, lvl := range []int{20, 5, 10} {
		rs, err = rs.Insert(models.RoleReward{Level: lvl, RoleID: "r"})
		require.NoError(t, err)
	}
	assert.True(t, rs.Sorted())
	assert.Equal(t, 5, rs[0].Level)
	assert.Equal(t, 20, rs[2].Level)
}

func TestRewards_DuplicateLevelRejected(t *testing.T) {
	rs, err := Rewards{}.Insert(models.RoleReward{Level: 10, RoleID: "111"})
	require.NoError(t, err)

	got, err := rs.Insert(models.RoleReward{Level: 10, RoleID: "222"})
	assert.ErrorIs(t, err, ErrDuplicateLevel)
	assert.Equal(t, rs, got)
	require.Len(t, rs, 1)
	assert.Equal(t, "111", rs[0].RoleID)
}

func TestRewards_RejectedInsertLeavesListUnchanged(t *testing.T) {
	rs := Rewards{{Level: 1, RoleID: "a"}, {Level: 4, RoleID: "b"}, {Level: 9, RoleID: "c"}}
	before := append(Rewards(nil), rs...)
	for _, lvl := range []int{1, 4, 9} {
		_, err := rs.Insert(models.RoleReward{Level: lvl, RoleID: "z"})
		assert.ErrorIs(t, err, ErrDuplicateLevel)
	}
	assert.Equal(t, before, rs)
	assert.True(t, rs.Sorted())
}

func TestRewards_InsertInvalid(t *testing.T) {
	_, err := Rewards{}.Insert(models.RoleReward{Level: 0, RoleID: "a"})
	assert.ErrorIs(t, err, ErrInvalidReward)
	_, err = Rewards{}.Insert(models.RoleReward{Level: 3})
	assert.ErrorIs(t, err, ErrInvalidReward)
}

func TestRewards_RemoveAndFor(t *testing.T) {
	rs := Rewards{{Level: 1, RoleID: "a"}, {Level: 4, RoleID: "b"}, {Level: 9, RoleID: "c"}}

	out, ok := rs.Remove(4)
	assert.True(t, ok)
	assert.Len(t, out, 2)
	assert.Len(t, rs, 3)

	_, ok = rs.Remove(7)
	assert.False(t, ok)

	assert.Len(t, rs.For(0), 0)
	assert.Len(t, rs.For(4), 2)
	assert.Len(t, rs.For(100), 3)
}
