// Package leveling holds the XP curve and the leaderboard and role-reward
// rules shared by the dashboard and the bot. It performs no I/O.
package leveling

import (
	"errors"
	"math"
	"sort"

	"github.com/dalemusser/guildhub/internal/domain/models"
)

// LeaderboardSize caps the leaderboard. Rows past the cap are dropped, not paged.
const LeaderboardSize = 100

// ErrDuplicateLevel is returned when a role reward already exists at a level.
var ErrDuplicateLevel = errors.New("a reward for this level already exists; remove the old one first")

// ErrInvalidReward is returned for a reward with a level below 1 or no role.
var ErrInvalidReward = errors.New("reward needs a level of at least 1 and a role")

// TotalXPForLevel is the cumulative XP needed to have reached level.
func TotalXPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return 5*level*level + 50*level + 100
}

// Progress describes how far a member is through their current level.
type Progress struct {
	XPInLevel int `json:"xpInLevel"`
	XPNeeded  int `json:"xpNeeded"`
	Percent   int `json:"percent"`
}

// ProgressFor computes progress within level for a stored (level, xp) pair.
// Percent is rounded half up and clamped to [0, 100].
func ProgressFor(level, xp int) Progress {
	base := TotalXPForLevel(level)
	p := Progress{
		XPInLevel: xp - base,
		XPNeeded:  TotalXPForLevel(level+1) - base,
	}
	if p.XPNeeded <= 0 {
		return p
	}
	pct := math.Floor(100*float64(p.XPInLevel)/float64(p.XPNeeded) + 0.5)
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	p.Percent = int(pct)
	return p
}

// SortLeaderboard orders rows by level then XP, highest first, with userId
// as a stable tiebreak, and truncates to LeaderboardSize.
func SortLeaderboard(rows []models.UserLevel) []models.UserLevel {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if a.XP != b.XP {
			return a.XP > b.XP
		}
		return a.UserID < b.UserID
	})
	if len(rows) > LeaderboardSize {
		rows = rows[:LeaderboardSize]
	}
	return rows
}

// Rewards is a role-reward list kept sorted by level with at most one
// reward per level.
type Rewards []models.RoleReward

// Insert returns a new list containing r. The receiver is never modified;
// a duplicate level yields ErrDuplicateLevel.
func (rs Rewards) Insert(r models.RoleReward) (Rewards, error) {
	if r.Level < 1 || r.RoleID == "" {
		return rs, ErrInvalidReward
	}
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Level >= r.Level })
	if i < len(rs) && rs[i].Level == r.Level {
		return rs, ErrDuplicateLevel
	}
	out := make(Rewards, 0, len(rs)+1)
	out = append(out, rs[:i]...)
	out = append(out, r)
	out = append(out, rs[i:]...)
	return out, nil
}

// Remove returns a new list without the reward at level, and whether one
// was removed.
func (rs Rewards) Remove(level int) (Rewards, bool) {
	out := make(Rewards, 0, len(rs))
	removed := false
	for _, r := range rs {
		if r.Level == level {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

// For returns the rewards a member at level has earned, lowest first.
func (rs Rewards) For(level int) Rewards {
	out := Rewards{}
	for _, r := range rs {
		if r.Level > level {
			break
		}
		out = append(out, r)
	}
	return out
}

// Sorted reports whether rs is strictly ascending by level.
func (rs Rewards) Sorted() bool {
	for i := 1; i < len(rs); i++ {
		if rs[i-1].Level >= rs[i].Level {
			return false
		}
	}
	return true
}
