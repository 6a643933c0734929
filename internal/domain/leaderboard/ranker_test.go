package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/stats"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
)

var rankNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func rankID(n int) shared.KudosID {
	return shared.KudosID(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

func rankEvent(t *testing.T, n int, sender, recipient shared.UserID, createdAt time.Time) *kudos.Kudos {
	t.Helper()
	k, err := kudos.New(rankID(n), sender, recipient, shared.CategoryTeamwork, "nice", createdAt)
	require.NoError(t, err)
	return k
}

func directory(names ...string) []*user.User {
	out := make([]*user.User, 0, len(names))
	for _, n := range names {
		out = append(out, &user.User{ID: shared.UserID(n), Name: n})
	}
	return out
}

func aggregate(t *testing.T, events []*kudos.Kudos) *stats.Aggregate {
	t.Helper()
	agg, err := stats.Compute(events, stats.Options{Now: rankNow, DecayWindow: stats.DefaultDecayWindow})
	require.NoError(t, err)
	return agg
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "x", "bob", rankNow),
		rankEvent(t, 2, "x", "bob", rankNow),
		rankEvent(t, 3, "x", "ann", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann", "bob"), DimensionReceived, Options{})
	require.Len(t, entries, 2)

	assert.Equal(t, shared.UserID("bob"), entries[0].UserID)
	assert.Equal(t, 2.0, entries[0].Score)
	assert.Equal(t, Position(1), entries[0].Rank)

	assert.Equal(t, shared.UserID("ann"), entries[1].UserID)
	assert.Equal(t, Position(2), entries[1].Rank)
}

func TestRank_TiesBreakByNameAscending(t *testing.T) {
	var events []*kudos.Kudos
	n := 1
	for i := 0; i < 5; i++ {
		events = append(events, rankEvent(t, n, "x", "ann", rankNow))
		n++
		events = append(events, rankEvent(t, n, "x", "bob", rankNow))
		n++
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("bob", "ann"), DimensionReceived, Options{})
	require.Len(t, entries, 2)

	// Both at 5 received; Ann ranks above Bob on the name tie-break.
	assert.Equal(t, "ann", entries[0].Name)
	assert.Equal(t, "bob", entries[1].Name)
	assert.Equal(t, entries[0].Score, entries[1].Score)
	assert.Equal(t, Position(1), entries[0].Rank)
	assert.Equal(t, Position(2), entries[1].Rank)
}

func TestRank_DensePositions(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "x", "ann", rankNow),
		rankEvent(t, 2, "x", "bob", rankNow),
		rankEvent(t, 3, "x", "cat", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann", "bob", "cat", "dan"), DimensionReceived, Options{})
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, Position(i+1), e.Rank)
	}
	assert.True(t, entries[0].Rank.IsPodium())
	assert.False(t, entries[3].Rank.IsPodium())
}

func TestRank_ZeroActivityUsersIncluded(t *testing.T) {
	agg := aggregate(t, nil)

	entries := Rank(agg, directory("ann", "bob"), DimensionReceived, Options{})
	require.Len(t, entries, 2)
	assert.Zero(t, entries[0].Score)
	assert.Equal(t, "ann", entries[0].Name)
}

func TestRank_MinScoreFiltersZeroRows(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "bob", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann", "bob", "cat"), DimensionReceived, Options{MinScore: 1})
	require.Len(t, entries, 1)
	assert.Equal(t, "bob", entries[0].Name)
}

func TestRank_OrphanEventUsersStillRanked(t *testing.T) {
	// "ghost" appears in events but not in the directory.
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "ghost", rankNow),
		rankEvent(t, 2, "ann", "ghost", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann"), DimensionReceived, Options{})
	require.Len(t, entries, 2)
	assert.Equal(t, shared.UserID("ghost"), entries[0].UserID)
	assert.Equal(t, "ghost", entries[0].Name)
	assert.Equal(t, 2.0, entries[0].Score)
}

func TestRank_EveryEventAttributedOnce(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "bob", rankNow),
		rankEvent(t, 2, "bob", "cat", rankNow),
		rankEvent(t, 3, "cat", "ghost", rankNow),
		rankEvent(t, 4, "ann", "cat", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann", "bob", "cat"), DimensionReceived, Options{})
	var total float64
	for _, e := range entries {
		total += e.Score
	}
	assert.Equal(t, float64(len(events)), total)
}

func TestRank_GivenDimension(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "bob", rankNow),
		rankEvent(t, 2, "ann", "cat", rankNow),
		rankEvent(t, 3, "bob", "ann", rankNow),
	}
	agg := aggregate(t, events)

	entries := Rank(agg, directory("ann", "bob", "cat"), DimensionGiven, Options{})
	require.Len(t, entries, 3)
	assert.Equal(t, "ann", entries[0].Name)
	assert.Equal(t, 2.0, entries[0].Score)
}

func TestRank_TrendingDimensionDecays(t *testing.T) {
	// Ann has two stale kudos, Bob one fresh one. Bob leads trending while
	// Ann leads received.
	events := []*kudos.Kudos{
		rankEvent(t, 1, "x", "ann", rankNow.Add(-29*24*time.Hour)),
		rankEvent(t, 2, "x", "ann", rankNow.Add(-29*24*time.Hour)),
		rankEvent(t, 3, "x", "bob", rankNow),
	}
	agg := aggregate(t, events)
	users := directory("ann", "bob")

	trending := Rank(agg, users, DimensionTrending, Options{})
	require.Len(t, trending, 2)
	assert.Equal(t, "bob", trending[0].Name)

	received := Rank(agg, users, DimensionReceived, Options{})
	assert.Equal(t, "ann", received[0].Name)
}

func TestRank_Deterministic(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "bob", rankNow),
		rankEvent(t, 2, "bob", "cat", rankNow),
		rankEvent(t, 3, "cat", "ann", rankNow),
	}
	agg := aggregate(t, events)
	users := directory("ann", "bob", "cat")

	first := Rank(agg, users, DimensionReceived, Options{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(agg, users, DimensionReceived, Options{}))
	}
}

func TestRank_EmptyInput(t *testing.T) {
	agg := aggregate(t, nil)
	entries := Rank(agg, nil, DimensionReceived, Options{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRankAll_ComputesAllDimensions(t *testing.T) {
	events := []*kudos.Kudos{
		rankEvent(t, 1, "ann", "bob", rankNow),
	}
	agg := aggregate(t, events)
	boards := RankAll(agg, directory("ann", "bob"), Options{})

	assert.Equal(t, "bob", boards.Received[0].Name)
	assert.Equal(t, "ann", boards.Given[0].Name)
	assert.Equal(t, "bob", boards.Trending[0].Name)
	assert.Equal(t, boards.Received, boards.ByDimension(DimensionReceived))
	assert.Equal(t, boards.Given, boards.ByDimension(DimensionGiven))
	assert.Equal(t, boards.Trending, boards.ByDimension(DimensionTrending))
}
