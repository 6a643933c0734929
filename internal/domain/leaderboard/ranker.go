package leaderboard

import (
	"sort"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/stats"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
)

// Options tunes one ranking pass.
type Options struct {
	// MinScore filters out users scoring below the threshold. The default 0
	// keeps the leaderboard total: users with zero activity still appear.
	MinScore float64
}

// Rank produces the ordered leaderboard for one dimension.
//
// Sort key: score descending, ties broken by display name ascending, then by
// user ID ascending for identical names. The tie-break makes two runs over
// the same snapshot produce identical output. Ranks are dense 1-based
// positions; an empty input yields an empty slice, never an error.
func Rank(agg *stats.Aggregate, users []*user.User, dim Dimension, opts Options) []Entry {
	if !dim.IsValid() {
		dim = DimensionReceived
	}

	entries := make([]Entry, 0, len(users))
	seen := make(map[shared.UserID]bool, len(users))

	for _, u := range users {
		seen[u.ID] = true
		score := scoreFor(agg.StatFor(u.ID), dim)
		if score < opts.MinScore {
			continue
		}
		entries = append(entries, Entry{
			UserID:     u.ID,
			Name:       u.DisplayName(),
			Department: u.Department,
			Score:      score,
		})
	}

	// Events may reference users the directory no longer returns. Their
	// scores still count: every kudos is attributed to exactly one entry.
	for id, s := range agg.PerUser {
		if seen[id] {
			continue
		}
		score := scoreFor(*s, dim)
		if score < opts.MinScore {
			continue
		}
		entries = append(entries, Entry{
			UserID: id,
			Name:   id.String(),
			Score:  score,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = Position(i + 1)
	}

	return entries
}

// RankAll computes all three dimensions from one aggregation pass.
func RankAll(agg *stats.Aggregate, users []*user.User, opts Options) *Leaderboards {
	return &Leaderboards{
		Received: Rank(agg, users, DimensionReceived, opts),
		Given:    Rank(agg, users, DimensionGiven, opts),
		Trending: Rank(agg, users, DimensionTrending, opts),
	}
}

func scoreFor(s stats.UserStat, dim Dimension) float64 {
	switch dim {
	case DimensionGiven:
		return float64(s.KudosGiven)
	case DimensionTrending:
		return s.TrendingScore
	default:
		return float64(s.KudosReceived)
	}
}
