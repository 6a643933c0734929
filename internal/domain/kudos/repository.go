package kudos

import (
	"context"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// EventStore is the engine's read view over persisted kudos events plus the
// single append operation that feeds it. Each read returns an internally
// consistent snapshot; cross-call consistency is only "eventually reflects
// all committed events".
type EventStore interface {
	// ListEvents returns all events, newest first.
	ListEvents(ctx context.Context) ([]*Kudos, error)

	// ListEventsSince returns events created within the given range, newest
	// first. Used for windowed aggregation.
	ListEventsSince(ctx context.Context, window shared.TimeRange) ([]*Kudos, error)

	// GetEvent returns a single event by ID.
	// Returns shared.ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, id shared.KudosID) (*Kudos, error)

	// AppendEvent persists a new kudos event. Events are never updated or
	// deleted through this interface.
	AppendEvent(ctx context.Context, k *Kudos) error
}

// ToggleResult is the outcome of a like toggle.
type ToggleResult struct {
	// Liked is the membership state after the toggle.
	Liked bool

	// LikeCount is the total like count after the toggle.
	LikeCount int
}

// LikeRegistry maintains the per-event liker set with idempotent XOR
// semantics: a toggle adds the user if absent, removes them if present.
// Implementations serialize toggles per event (mutex or versioned
// compare-and-swap) and retry contention internally up to a bounded budget
// before surfacing shared.ErrConflict.
type LikeRegistry interface {
	// ToggleLike flips the given user's membership in the event's liker set.
	// Returns shared.ErrNotFound for an unknown event.
	ToggleLike(ctx context.Context, id shared.KudosID, userID shared.UserID) (ToggleResult, error)
}
