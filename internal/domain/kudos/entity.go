// Package kudos contains the domain model for recognition events.
// A kudos event is one commendation from a sender to a recipient, tagged with
// a category from a fixed set. Events are append-only: the liker set is the
// single mutable field, everything else is immutable after creation.
package kudos

import (
	"strings"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// MaxMessageLength bounds the free-text commendation message.
const MaxMessageLength = 500

// ══════════════════════════════════════════════════════════════════════════════
// KUDOS EVENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Kudos is a single recognition event.
//
// Instances returned by a store are snapshots: mutating Likers on a snapshot
// has no effect on persisted state. Like toggles go through the LikeRegistry,
// which owns the synchronization of the liker set.
type Kudos struct {
	ID          shared.KudosID
	SenderID    shared.UserID
	RecipientID shared.UserID
	Category    shared.Category
	Message     string
	CreatedAt   time.Time

	// Likers holds the IDs of users who currently like this event.
	Likers []shared.UserID
}

// New creates a validated kudos event.
// Sender == recipient is deliberately not rejected: self-kudos is neither
// supported nor forbidden by current product rules.
func New(id shared.KudosID, sender, recipient shared.UserID, category shared.Category, message string, createdAt time.Time) (*Kudos, error) {
	if !id.IsValid() {
		return nil, shared.NewDomainError("kudos", "New", shared.ErrInvalidID, "invalid kudos ID")
	}
	if !sender.IsValid() {
		return nil, shared.ErrMissingSender
	}
	if !recipient.IsValid() {
		return nil, shared.ErrMissingRecipient
	}
	if !category.IsValid() {
		return nil, shared.ErrUnknownCategory
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.ErrEmptyMessage
	}
	if len(message) > MaxMessageLength {
		return nil, shared.ErrMessageTooLong
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Kudos{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Category:    category,
		Message:     message,
		CreatedAt:   createdAt,
	}, nil
}

// LikeCount returns the current number of likes on the snapshot.
func (k *Kudos) LikeCount() int {
	return len(k.Likers)
}

// LikedBy reports whether the given user likes this event.
func (k *Kudos) LikedBy(userID shared.UserID) bool {
	for _, id := range k.Likers {
		if id == userID {
			return true
		}
	}
	return false
}

// Age returns how old the event is relative to now.
func (k *Kudos) Age(now time.Time) time.Duration {
	return now.Sub(k.CreatedAt)
}

// TrendingWeight returns the recency-weighted contribution of this event:
// max(0, 1 - age/decayWindow). An event at age 0 contributes 1.0, an event
// older than the window contributes 0. The decay is smooth, there is no cliff.
func (k *Kudos) TrendingWeight(now time.Time, decayWindow time.Duration) float64 {
	if decayWindow <= 0 {
		return 0
	}
	age := k.Age(now)
	if age < 0 {
		// Future-dated events count at full weight rather than above it.
		return 1
	}
	w := 1 - float64(age)/float64(decayWindow)
	if w < 0 {
		return 0
	}
	return w
}

// MatchesFilter reports whether the event passes a category filter.
// CategoryAll (and the empty string) match everything.
func (k *Kudos) MatchesFilter(filter shared.Category) bool {
	return filter == "" || filter == shared.CategoryAll || k.Category == filter
}

// MatchesSearch reports whether the event's message matches a case-insensitive
// substring search. Sender/recipient name matching happens at the facade,
// which is the layer that knows display names.
func (k *Kudos) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(k.Message), strings.ToLower(search))
}

// Clone returns a deep copy of the event snapshot.
func (k *Kudos) Clone() *Kudos {
	likers := make([]shared.UserID, len(k.Likers))
	copy(likers, k.Likers)
	c := *k
	c.Likers = likers
	return &c
}
