// Package user contains the read-only view over the external user directory.
// The engine never creates or mutates users; it only reads id, display name
// and department for joins and leaderboard rendering.
package user

import (
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// User is a directory record as the engine sees it.
type User struct {
	ID         shared.UserID
	Name       string
	Department string
	Bio        string
}

// DisplayName returns the name to render, falling back to the opaque ID for
// directory records with no name set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID.String()
}
