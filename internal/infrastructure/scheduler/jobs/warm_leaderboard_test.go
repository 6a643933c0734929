package jobs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/memory"
	"github.com/kudos-hub/kudos-engine/pkg/timeutil"
)

type recordingCache struct {
	mu     sync.Mutex
	boards *leaderboard.Leaderboards
	sets   int
}

func (c *recordingCache) Get(ctx context.Context) (*leaderboard.Leaderboards, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boards == nil {
		return nil, shared.ErrNotFound
	}
	return c.boards, nil
}

func (c *recordingCache) Set(ctx context.Context, boards *leaderboard.Leaderboards) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards = boards
	c.sets++
	return nil
}

func (c *recordingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards = nil
	return nil
}

func TestWarmLeaderboardJob_FillsCache(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	store.PutUser(&user.User{ID: "alice", Name: "Alice"})
	store.PutUser(&user.User{ID: "bob", Name: "Bob"})

	k, err := kudos.New(
		shared.KudosID(fmt.Sprintf("00000000-0000-4000-8000-%012d", 1)),
		"alice", "bob", shared.CategoryTeamwork, "nice", now)
	require.NoError(t, err)
	require.NoError(t, store.AppendEvent(context.Background(), k))

	// The job computes with a nil cache handler so it never reads what it is
	// about to overwrite.
	handler := query.NewGetLeaderboardHandler(store, store, nil,
		timeutil.NewFixedClock(now), nil, query.GetLeaderboardConfig{})

	cache := &recordingCache{}
	job := NewWarmLeaderboardJob(handler, cache, nil)

	assert.Equal(t, "warm_leaderboard_cache", job.Name())
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, cache.sets)
	require.NotNil(t, cache.boards)
	assert.Equal(t, now, cache.boards.GeneratedAt)
	require.Len(t, cache.boards.Received, 2)
	assert.Equal(t, "Bob", cache.boards.Received[0].Name)
}
