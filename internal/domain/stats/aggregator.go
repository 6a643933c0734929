// Package stats implements the aggregation layer of the recognition engine.
// It turns a snapshot of kudos events into per-user and per-category roll-ups.
// Aggregation is a pure function of the event set: no caching, no side effects,
// deterministic output for a fixed input.
package stats

import (
	"sort"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// UserStat holds the per-user roll-up.
type UserStat struct {
	UserID shared.UserID

	// KudosReceived is the count of events where this user is the recipient.
	KudosReceived int

	// KudosGiven is the count of events where this user is the sender.
	KudosGiven int

	// CategoryBreakdown counts received events per category.
	CategoryBreakdown map[shared.Category]int

	// TrendingScore is the recency-weighted received count: each event
	// contributes max(0, 1 - age/decayWindow), summed.
	TrendingScore float64
}

// CategoryStat is one (category, count) pair of the global breakdown.
type CategoryStat struct {
	Category shared.Category `json:"category"`
	Count    int             `json:"count"`
}

// Aggregate is the full output of one aggregation pass.
type Aggregate struct {
	// PerUser maps user ID to that user's roll-up. Only users that appear
	// in at least one event have an entry; the ranker fills in zero rows
	// from the directory.
	PerUser map[shared.UserID]*UserStat

	// PerCategory is the global category breakdown, ordered by descending
	// count, then by category name ascending.
	PerCategory []CategoryStat

	// TotalEvents is the number of events that were aggregated.
	TotalEvents int

	// SkippedEvents counts corrupt events that were skipped rather than
	// aborting the pass (see Options.FailFast).
	SkippedEvents int
}

// Options tunes one aggregation pass.
type Options struct {
	// Now anchors trending decay. Zero means time.Now().UTC().
	Now time.Time

	// DecayWindow is the trending decay window. Events older than this
	// contribute nothing to trending. Zero disables trending scoring.
	DecayWindow time.Duration

	// FailFast aborts the whole pass with ErrInvalidCategory on the first
	// corrupt event. The default (false) skips the event and counts it in
	// SkippedEvents, so one bad record cannot take down a leaderboard.
	FailFast bool
}

// DefaultDecayWindow is the trending window used when callers pass none.
const DefaultDecayWindow = 30 * 24 * time.Hour

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// Compute aggregates a snapshot of events. Input ordering is irrelevant.
func Compute(events []*kudos.Kudos, opts Options) (*Aggregate, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	agg := &Aggregate{
		PerUser: make(map[shared.UserID]*UserStat),
	}
	categoryCounts := make(map[shared.Category]int, len(shared.Categories()))

	for _, e := range events {
		if !e.Category.IsValid() {
			if opts.FailFast {
				return nil, shared.WrapError("stats", "Compute", shared.ErrInvalidCategory,
					"event "+e.ID.String()+" references category "+e.Category.String(), nil)
			}
			agg.SkippedEvents++
			continue
		}

		recipient := agg.statFor(e.RecipientID)
		recipient.KudosReceived++
		recipient.CategoryBreakdown[e.Category]++
		if opts.DecayWindow > 0 {
			recipient.TrendingScore += e.TrendingWeight(now, opts.DecayWindow)
		}

		sender := agg.statFor(e.SenderID)
		sender.KudosGiven++

		categoryCounts[e.Category]++
		agg.TotalEvents++
	}

	agg.PerCategory = sortedCategoryStats(categoryCounts)
	return agg, nil
}

// statFor returns the stat row for a user, creating it on first sight.
func (a *Aggregate) statFor(id shared.UserID) *UserStat {
	if s, ok := a.PerUser[id]; ok {
		return s
	}
	s := &UserStat{
		UserID:            id,
		CategoryBreakdown: make(map[shared.Category]int),
	}
	a.PerUser[id] = s
	return s
}

// StatFor returns the roll-up for one user, or a zero stat if the user
// appears in no event.
func (a *Aggregate) StatFor(id shared.UserID) UserStat {
	if s, ok := a.PerUser[id]; ok {
		return *s
	}
	return UserStat{UserID: id, CategoryBreakdown: map[shared.Category]int{}}
}

// CategoryStatsFor returns one user's received-category breakdown in the same
// deterministic order as the global breakdown.
func (a *Aggregate) CategoryStatsFor(id shared.UserID) []CategoryStat {
	s, ok := a.PerUser[id]
	if !ok {
		return []CategoryStat{}
	}
	return sortedCategoryStats(s.CategoryBreakdown)
}

// sortedCategoryStats orders a breakdown by count descending, then by
// category name ascending. Categories with zero count are omitted.
func sortedCategoryStats(counts map[shared.Category]int) []CategoryStat {
	out := make([]CategoryStat, 0, len(counts))
	for c, n := range counts {
		if n == 0 {
			continue
		}
		out = append(out, CategoryStat{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
