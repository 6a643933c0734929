// Package leaderboard contains the ranking layer of the recognition engine.
// It consumes aggregator output and produces ordered, tie-broken leaderboards
// along three independent dimensions over the same event set.
package leaderboard

import (
	"context"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Dimension is one scoring view over the event set.
type Dimension string

const (
	// DimensionReceived scores users by kudos received.
	DimensionReceived Dimension = "received"

	// DimensionGiven scores users by kudos given.
	DimensionGiven Dimension = "given"

	// DimensionTrending scores users by recency-weighted kudos received.
	DimensionTrending Dimension = "trending"
)

// IsValid checks that the dimension is one of the three known views.
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionReceived, DimensionGiven, DimensionTrending:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Dimension) String() string {
	return string(d)
}

// Dimensions returns all dimensions in presentation order.
func Dimensions() []Dimension {
	return []Dimension{DimensionReceived, DimensionGiven, DimensionTrending}
}

// Position represents a 1-based rank. Positions are dense: 1, 2, 3, ... with
// no gaps, and equal scores still get distinct positions (the consumer renders
// a podium for the top three and numbered rows from 4).
type Position int

// IsValid checks that the position is positive.
func (p Position) IsValid() bool {
	return p > 0
}

// IsPodium reports whether the position is rendered as a podium place.
func (p Position) IsPodium() bool {
	return p >= 1 && p <= 3
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one row of a ranked leaderboard.
type Entry struct {
	Rank       Position      `json:"rank"`
	UserID     shared.UserID `json:"user_id"`
	Name       string        `json:"name"`
	Department string        `json:"department"`

	// Score is the dimension score. Integral for received/given, fractional
	// for trending.
	Score float64 `json:"score"`
}

// Leaderboards bundles the three dimension views computed from one snapshot.
type Leaderboards struct {
	Received    []Entry   `json:"received"`
	Given       []Entry   `json:"given"`
	Trending    []Entry   `json:"trending"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ByDimension returns the entries for one dimension.
func (l *Leaderboards) ByDimension(d Dimension) []Entry {
	switch d {
	case DimensionGiven:
		return l.Given
	case DimensionTrending:
		return l.Trending
	default:
		return l.Received
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE PORT
// ══════════════════════════════════════════════════════════════════════════════

// Cache stores computed leaderboards. Caching is an optimization only: every
// cached value is derivable from the event set, and a cache miss or outage
// falls back to direct computation.
type Cache interface {
	// Get returns the cached leaderboards, or shared.ErrNotFound on a miss.
	Get(ctx context.Context) (*Leaderboards, error)

	// Set stores the leaderboards with the cache's configured TTL.
	Set(ctx context.Context, boards *Leaderboards) error

	// Invalidate drops the cached value.
	Invalidate(ctx context.Context) error
}
