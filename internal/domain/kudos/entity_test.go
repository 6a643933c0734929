package kudos

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

const validID = shared.KudosID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

var entityNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestNew_Valid(t *testing.T) {
	k, err := New(validID, "alice", "bob", shared.CategoryTeamwork, "  great job  ", entityNow)
	require.NoError(t, err)

	assert.Equal(t, validID, k.ID)
	assert.Equal(t, "great job", k.Message, "message is trimmed")
	assert.Equal(t, entityNow, k.CreatedAt)
	assert.Zero(t, k.LikeCount())
}

func TestNew_SelfKudosAllowed(t *testing.T) {
	_, err := New(validID, "alice", "alice", shared.CategoryHelp, "me", entityNow)
	assert.NoError(t, err)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		id       shared.KudosID
		sender   shared.UserID
		receiver shared.UserID
		category shared.Category
		message  string
		wantErr  error
	}{
		{"bad id", "not-a-uuid", "a", "b", shared.CategoryHelp, "hi", shared.ErrInvalidID},
		{"missing sender", validID, "", "b", shared.CategoryHelp, "hi", shared.ErrMissingSender},
		{"missing recipient", validID, "a", "", shared.CategoryHelp, "hi", shared.ErrMissingRecipient},
		{"unknown category", validID, "a", "b", "Vibes", "hi", shared.ErrUnknownCategory},
		{"empty message", validID, "a", "b", shared.CategoryHelp, "   ", shared.ErrEmptyMessage},
		{"message too long", validID, "a", "b", shared.CategoryHelp, strings.Repeat("x", MaxMessageLength+1), shared.ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.sender, tt.receiver, tt.category, tt.message, entityNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_CategoryAllRejectedOnStoredEvents(t *testing.T) {
	_, err := New(validID, "a", "b", shared.CategoryAll, "hi", entityNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnknownCategory)
}

func TestTrendingWeight(t *testing.T) {
	window := 30 * 24 * time.Hour

	tests := []struct {
		name      string
		createdAt time.Time
		want      float64
	}{
		{"age zero", entityNow, 1.0},
		{"half window", entityNow.Add(-15 * 24 * time.Hour), 0.5},
		{"at window edge", entityNow.Add(-30 * 24 * time.Hour), 0.0},
		{"past window", entityNow.Add(-60 * 24 * time.Hour), 0.0},
		{"future dated", entityNow.Add(time.Hour), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &Kudos{CreatedAt: tt.createdAt}
			assert.InDelta(t, tt.want, k.TrendingWeight(entityNow, window), 1e-9)
		})
	}
}

func TestTrendingWeight_MonotoneInAge(t *testing.T) {
	window := 30 * 24 * time.Hour
	prev := 2.0
	for age := time.Duration(0); age <= 40*24*time.Hour; age += 24 * time.Hour {
		k := &Kudos{CreatedAt: entityNow.Add(-age)}
		w := k.TrendingWeight(entityNow, window)
		assert.LessOrEqual(t, w, prev, "age=%v", age)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
		prev = w
	}
}

func TestTrendingWeight_ZeroWindow(t *testing.T) {
	k := &Kudos{CreatedAt: entityNow}
	assert.Zero(t, k.TrendingWeight(entityNow, 0))
}

func TestLikedBy(t *testing.T) {
	k := &Kudos{Likers: []shared.UserID{"alice", "bob"}}

	assert.True(t, k.LikedBy("alice"))
	assert.False(t, k.LikedBy("carol"))
	assert.Equal(t, 2, k.LikeCount())
}

func TestMatchesFilter(t *testing.T) {
	k := &Kudos{Category: shared.CategoryTeamwork}

	assert.True(t, k.MatchesFilter(""))
	assert.True(t, k.MatchesFilter(shared.CategoryAll))
	assert.True(t, k.MatchesFilter(shared.CategoryTeamwork))
	assert.False(t, k.MatchesFilter(shared.CategoryHelp))
}

func TestMatchesSearch(t *testing.T) {
	k := &Kudos{Message: "Shipped the Quarterly report"}

	assert.True(t, k.MatchesSearch(""))
	assert.True(t, k.MatchesSearch("quarterly"))
	assert.True(t, k.MatchesSearch("SHIPPED"))
	assert.False(t, k.MatchesSearch("annual"))
}

func TestClone_Isolated(t *testing.T) {
	k := &Kudos{ID: validID, Likers: []shared.UserID{"alice"}}
	c := k.Clone()

	c.Likers[0] = "mutated"
	c.Likers = append(c.Likers, "extra")

	assert.Equal(t, []shared.UserID{"alice"}, k.Likers)
}
