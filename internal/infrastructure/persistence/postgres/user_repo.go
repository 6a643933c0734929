package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
)

// UserRepository implements user.Directory over the users table.
// The engine treats the directory as read-only; writes belong to the external
// owner of the table.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetUser implements user.Directory.
func (r *UserRepository) GetUser(ctx context.Context, id shared.UserID) (*user.User, error) {
	var u user.User
	var uid string

	err := r.conn.Pool().QueryRow(ctx, `
		SELECT id, display_name, department, bio
		FROM users
		WHERE id = $1
	`, id.String()).Scan(&uid, &u.Name, &u.Department, &u.Bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("postgres", "GetUser", shared.ErrServiceUnavailable, "query failed", err)
	}

	u.ID = shared.UserID(uid)
	return &u, nil
}

// ListUsers implements user.Directory.
func (r *UserRepository) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := r.conn.Pool().Query(ctx, `
		SELECT id, display_name, department, bio
		FROM users
		ORDER BY display_name, id
	`)
	if err != nil {
		return nil, shared.WrapError("postgres", "ListUsers", shared.ErrServiceUnavailable, "query failed", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		var u user.User
		var uid string
		if err := rows.Scan(&uid, &u.Name, &u.Department, &u.Bio); err != nil {
			return nil, shared.WrapError("postgres", "ListUsers", shared.ErrServiceUnavailable, "row scan failed", err)
		}
		u.ID = shared.UserID(uid)
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "ListUsers", shared.ErrServiceUnavailable, "row iteration failed", err)
	}
	return out, nil
}
