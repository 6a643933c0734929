package user

import (
	"context"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// Directory is the read-only port to the external user directory.
type Directory interface {
	// GetUser returns a single user by ID.
	// Returns shared.ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, id shared.UserID) (*User, error)

	// ListUsers returns all known users. The leaderboard is total: users
	// with zero activity still appear, so the ranker needs the full set.
	ListUsers(ctx context.Context) ([]*User, error)
}

// IndexByID builds a lookup map from a user list.
func IndexByID(users []*User) map[shared.UserID]*User {
	idx := make(map[shared.UserID]*User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}
