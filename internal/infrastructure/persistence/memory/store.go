// Package memory implements the engine's persistence ports in process memory.
// It backs tests and development mode, and is the reference implementation of
// the like-toggle concurrency contract: toggles for the same event serialize
// through a per-event mutex, toggles for different events never contend.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
)

// record is the mutable stored form of one kudos event.
type record struct {
	mu     sync.Mutex
	kudos  kudos.Kudos
	likers map[shared.UserID]struct{}
}

// snapshot copies the record into an immutable read view.
func (r *record) snapshot() *kudos.Kudos {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.kudos
	k.Likers = make([]shared.UserID, 0, len(r.likers))
	for id := range r.likers {
		k.Likers = append(k.Likers, id)
	}
	// Deterministic liker order keeps snapshots comparable in tests.
	sort.Slice(k.Likers, func(i, j int) bool { return k.Likers[i] < k.Likers[j] })
	return &k
}

// Store implements kudos.EventStore, kudos.LikeRegistry and user.Directory.
type Store struct {
	mu      sync.RWMutex
	records map[shared.KudosID]*record
	order   []shared.KudosID // insertion order, oldest first
	users   map[shared.UserID]*user.User
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[shared.KudosID]*record),
		users:   make(map[shared.UserID]*user.User),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT STORE
// ══════════════════════════════════════════════════════════════════════════════

// AppendEvent implements kudos.EventStore.
func (s *Store) AppendEvent(ctx context.Context, k *kudos.Kudos) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[k.ID]; exists {
		return shared.NewDomainError("memory", "AppendEvent", shared.ErrAlreadyExists,
			"kudos event "+k.ID.String()+" already stored")
	}

	likers := make(map[shared.UserID]struct{}, len(k.Likers))
	for _, id := range k.Likers {
		likers[id] = struct{}{}
	}

	stored := *k
	stored.Likers = nil
	s.records[k.ID] = &record{kudos: stored, likers: likers}
	s.order = append(s.order, k.ID)
	return nil
}

// ListEvents implements kudos.EventStore. Newest first.
func (s *Store) ListEvents(ctx context.Context) ([]*kudos.Kudos, error) {
	s.mu.RLock()
	ids := make([]shared.KudosID, len(s.order))
	copy(ids, s.order)
	recs := make([]*record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, s.records[id])
	}
	s.mu.RUnlock()

	out := make([]*kudos.Kudos, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, recs[i].snapshot())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListEventsSince implements kudos.EventStore.
func (s *Store) ListEventsSince(ctx context.Context, window shared.TimeRange) ([]*kudos.Kudos, error) {
	all, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*kudos.Kudos, 0, len(all))
	for _, k := range all {
		if window.Contains(k.CreatedAt) {
			out = append(out, k)
		}
	}
	return out, nil
}

// GetEvent implements kudos.EventStore.
func (s *Store) GetEvent(ctx context.Context, id shared.KudosID) (*kudos.Kudos, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrKudosNotFound
	}
	return rec.snapshot(), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE REGISTRY
// ══════════════════════════════════════════════════════════════════════════════

// ToggleLike implements kudos.LikeRegistry. The per-record mutex makes the
// toggle an atomic XOR on the liker set: concurrent toggles from different
// users each apply exactly once, and concurrent toggles for the same
// (event, user) pair resolve as last-applied-wins.
func (s *Store) ToggleLike(ctx context.Context, id shared.KudosID, userID shared.UserID) (kudos.ToggleResult, error) {
	if !userID.IsValid() {
		return kudos.ToggleResult{}, shared.NewDomainError("memory", "ToggleLike", shared.ErrInvalidID, "user ID cannot be empty")
	}

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return kudos.ToggleResult{}, shared.ErrKudosNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if _, liked := rec.likers[userID]; liked {
		delete(rec.likers, userID)
		return kudos.ToggleResult{Liked: false, LikeCount: len(rec.likers)}, nil
	}
	rec.likers[userID] = struct{}{}
	return kudos.ToggleResult{Liked: true, LikeCount: len(rec.likers)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// USER DIRECTORY
// ══════════════════════════════════════════════════════════════════════════════

// PutUser seeds or updates a directory record.
func (s *Store) PutUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// GetUser implements user.Directory.
func (s *Store) GetUser(ctx context.Context, id shared.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// ListUsers implements user.Directory.
func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
