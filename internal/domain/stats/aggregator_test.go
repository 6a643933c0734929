package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testID(n int) shared.KudosID {
	return shared.KudosID(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

func testEvent(t *testing.T, n int, sender, recipient shared.UserID, category shared.Category, createdAt time.Time) *kudos.Kudos {
	t.Helper()
	k, err := kudos.New(testID(n), sender, recipient, category, "great work", createdAt)
	require.NoError(t, err)
	return k
}

func TestCompute_CountsReceivedAndGiven(t *testing.T) {
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryTeamwork, testNow),
		testEvent(t, 2, "carol", "bob", shared.CategoryHelp, testNow),
		testEvent(t, 3, "carol", "bob", shared.CategoryHelp, testNow),
		testEvent(t, 4, "bob", "alice", shared.CategoryInnovation, testNow),
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)

	bob := agg.StatFor("bob")
	assert.Equal(t, 3, bob.KudosReceived)
	assert.Equal(t, 1, bob.KudosGiven)
	assert.Equal(t, 2, bob.CategoryBreakdown[shared.CategoryHelp])
	assert.Equal(t, 1, bob.CategoryBreakdown[shared.CategoryTeamwork])

	alice := agg.StatFor("alice")
	assert.Equal(t, 1, alice.KudosReceived)
	assert.Equal(t, 1, alice.KudosGiven)

	carol := agg.StatFor("carol")
	assert.Equal(t, 0, carol.KudosReceived)
	assert.Equal(t, 2, carol.KudosGiven)

	assert.Equal(t, 4, agg.TotalEvents)
	assert.Equal(t, 0, agg.SkippedEvents)
}

func TestCompute_CategoryBreakdownOrdering(t *testing.T) {
	// Help has 2 events, Teamwork 1, so Help sorts first despite alphabet.
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryTeamwork, testNow),
		testEvent(t, 2, "carol", "bob", shared.CategoryHelp, testNow),
		testEvent(t, 3, "dave", "bob", shared.CategoryHelp, testNow),
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)

	require.Len(t, agg.PerCategory, 2)
	assert.Equal(t, shared.CategoryHelp, agg.PerCategory[0].Category)
	assert.Equal(t, 2, agg.PerCategory[0].Count)
	assert.Equal(t, shared.CategoryTeamwork, agg.PerCategory[1].Category)
	assert.Equal(t, 1, agg.PerCategory[1].Count)
}

func TestCompute_CategoryTieBreaksByName(t *testing.T) {
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryTeamwork, testNow),
		testEvent(t, 2, "carol", "bob", shared.CategoryExcellence, testNow),
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)

	require.Len(t, agg.PerCategory, 2)
	assert.Equal(t, shared.CategoryExcellence, agg.PerCategory[0].Category)
	assert.Equal(t, shared.CategoryTeamwork, agg.PerCategory[1].Category)
}

func TestCompute_ZeroCountCategoriesOmitted(t *testing.T) {
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryHelp, testNow),
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)

	require.Len(t, agg.PerCategory, 1)
	assert.Equal(t, shared.CategoryHelp, agg.PerCategory[0].Category)
}

func TestCompute_TrendingDecay(t *testing.T) {
	window := 30 * 24 * time.Hour
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "fresh", shared.CategoryHelp, testNow),
		testEvent(t, 2, "alice", "mid", shared.CategoryHelp, testNow.Add(-15*24*time.Hour)),
		testEvent(t, 3, "alice", "stale", shared.CategoryHelp, testNow.Add(-45*24*time.Hour)),
	}

	agg, err := Compute(events, Options{Now: testNow, DecayWindow: window})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, agg.StatFor("fresh").TrendingScore, 1e-9)
	assert.InDelta(t, 0.5, agg.StatFor("mid").TrendingScore, 1e-9)
	assert.InDelta(t, 0.0, agg.StatFor("stale").TrendingScore, 1e-9)

	// The stale event still counts toward the plain received total.
	assert.Equal(t, 1, agg.StatFor("stale").KudosReceived)
}

func TestCompute_TrendingDisabledWithoutWindow(t *testing.T) {
	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryHelp, testNow),
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, agg.StatFor("bob").TrendingScore)
}

func TestCompute_CorruptCategorySkippedByDefault(t *testing.T) {
	bad := testEvent(t, 2, "carol", "bob", shared.CategoryHelp, testNow)
	bad.Category = "Vibes" // store corruption, constructor would reject this

	events := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryTeamwork, testNow),
		bad,
	}

	agg, err := Compute(events, Options{Now: testNow})
	require.NoError(t, err)

	assert.Equal(t, 1, agg.TotalEvents)
	assert.Equal(t, 1, agg.SkippedEvents)
	assert.Equal(t, 1, agg.StatFor("bob").KudosReceived)
}

func TestCompute_CorruptCategoryFailFast(t *testing.T) {
	bad := testEvent(t, 1, "alice", "bob", shared.CategoryHelp, testNow)
	bad.Category = "Vibes"

	_, err := Compute([]*kudos.Kudos{bad}, Options{Now: testNow, FailFast: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
	assert.True(t, shared.IsDataIntegrity(err))
}

func TestCompute_EmptyInput(t *testing.T) {
	agg, err := Compute(nil, Options{Now: testNow})
	require.NoError(t, err)

	assert.Empty(t, agg.PerUser)
	assert.Empty(t, agg.PerCategory)
	assert.Zero(t, agg.TotalEvents)

	unknown := agg.StatFor("ghost")
	assert.Zero(t, unknown.KudosReceived)
	assert.Zero(t, unknown.KudosGiven)
	assert.Empty(t, agg.CategoryStatsFor("ghost"))
}

func TestCompute_DeterministicAcrossOrderings(t *testing.T) {
	forward := []*kudos.Kudos{
		testEvent(t, 1, "alice", "bob", shared.CategoryTeamwork, testNow),
		testEvent(t, 2, "carol", "bob", shared.CategoryHelp, testNow.Add(-time.Hour)),
		testEvent(t, 3, "bob", "carol", shared.CategoryExcellence, testNow.Add(-2*time.Hour)),
	}
	reversed := []*kudos.Kudos{forward[2], forward[1], forward[0]}

	a, err := Compute(forward, Options{Now: testNow, DecayWindow: DefaultDecayWindow})
	require.NoError(t, err)
	b, err := Compute(reversed, Options{Now: testNow, DecayWindow: DefaultDecayWindow})
	require.NoError(t, err)

	assert.Equal(t, a.PerCategory, b.PerCategory)
	assert.Equal(t, a.StatFor("bob"), b.StatFor("bob"))
	assert.Equal(t, a.StatFor("carol"), b.StatFor("carol"))
}
