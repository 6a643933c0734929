package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// KUDOS REPOSITORY
// Implements kudos.EventStore and kudos.LikeRegistry over the kudos_events
// table. Like toggles use optimistic concurrency: read the liker set with its
// version, write back guarded by the version, retry on lost races.
// ══════════════════════════════════════════════════════════════════════════════

// KudosRepository implements the kudos persistence ports for PostgreSQL.
type KudosRepository struct {
	conn *Connection

	// toggleRetry bounds the optimistic like-toggle loop.
	toggleRetry retry.Config
}

// NewKudosRepository creates a KudosRepository. A zero retryAttempts keeps
// the default budget of 3.
func NewKudosRepository(conn *Connection, retryAttempts int) *KudosRepository {
	cfg := retry.DefaultConfig()
	if retryAttempts > 0 {
		cfg.MaxAttempts = retryAttempts
	}
	return &KudosRepository{conn: conn, toggleRetry: cfg}
}

const kudosColumns = `id, sender_id, recipient_id, category, message, likers, created_at`

// AppendEvent implements kudos.EventStore.
func (r *KudosRepository) AppendEvent(ctx context.Context, k *kudos.Kudos) error {
	likers := make([]string, len(k.Likers))
	for i, id := range k.Likers {
		likers[i] = id.String()
	}

	_, err := r.conn.Pool().Exec(ctx, `
		INSERT INTO kudos_events (id, sender_id, recipient_id, category, message, likers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		k.ID.String(),
		k.SenderID.String(),
		k.RecipientID.String(),
		k.Category.String(),
		k.Message,
		likers,
		k.CreatedAt,
	)
	if err != nil {
		return shared.WrapError("postgres", "AppendEvent", shared.ErrServiceUnavailable, "insert failed", err)
	}
	return nil
}

// ListEvents implements kudos.EventStore. Newest first.
func (r *KudosRepository) ListEvents(ctx context.Context) ([]*kudos.Kudos, error) {
	rows, err := r.conn.Pool().Query(ctx, `
		SELECT `+kudosColumns+`
		FROM kudos_events
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, shared.WrapError("postgres", "ListEvents", shared.ErrServiceUnavailable, "query failed", err)
	}
	defer rows.Close()

	return scanKudosRows(rows)
}

// ListEventsSince implements kudos.EventStore.
func (r *KudosRepository) ListEventsSince(ctx context.Context, window shared.TimeRange) ([]*kudos.Kudos, error) {
	rows, err := r.conn.Pool().Query(ctx, `
		SELECT `+kudosColumns+`
		FROM kudos_events
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC, id
	`, window.From, window.To)
	if err != nil {
		return nil, shared.WrapError("postgres", "ListEventsSince", shared.ErrServiceUnavailable, "query failed", err)
	}
	defer rows.Close()

	return scanKudosRows(rows)
}

// GetEvent implements kudos.EventStore.
func (r *KudosRepository) GetEvent(ctx context.Context, id shared.KudosID) (*kudos.Kudos, error) {
	row := r.conn.Pool().QueryRow(ctx, `
		SELECT `+kudosColumns+`
		FROM kudos_events
		WHERE id = $1
	`, id.String())

	k, err := scanKudos(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrKudosNotFound
		}
		return nil, shared.WrapError("postgres", "GetEvent", shared.ErrServiceUnavailable, "query failed", err)
	}
	return k, nil
}

// ToggleLike implements kudos.LikeRegistry via a versioned compare-and-swap.
// A concurrent toggle bumps the version between our read and write; the
// UPDATE then matches zero rows and the attempt retries with a fresh read.
// An exhausted budget surfaces shared.ErrConflict, never a silent loss.
func (r *KudosRepository) ToggleLike(ctx context.Context, id shared.KudosID, userID shared.UserID) (kudos.ToggleResult, error) {
	var result kudos.ToggleResult

	err := retry.Do(ctx, r.toggleRetry, func(ctx context.Context) error {
		var likers []string
		var version int64

		err := r.conn.Pool().QueryRow(ctx, `
			SELECT likers, version FROM kudos_events WHERE id = $1
		`, id.String()).Scan(&likers, &version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return retry.Permanent(shared.ErrKudosNotFound)
			}
			return retry.Permanent(shared.WrapError("postgres", "ToggleLike", shared.ErrServiceUnavailable, "read failed", err))
		}

		next, liked := toggle(likers, userID.String())

		tag, err := r.conn.Pool().Exec(ctx, `
			UPDATE kudos_events
			SET likers = $1, version = version + 1
			WHERE id = $2 AND version = $3
		`, next, id.String(), version)
		if err != nil {
			return retry.Permanent(shared.WrapError("postgres", "ToggleLike", shared.ErrServiceUnavailable, "write failed", err))
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrConcurrentModification
		}

		result = kudos.ToggleResult{Liked: liked, LikeCount: len(next)}
		return nil
	})

	if err != nil {
		if errors.Is(err, shared.ErrConcurrentModification) {
			return kudos.ToggleResult{}, shared.ErrLikeContention
		}
		return kudos.ToggleResult{}, err
	}
	return result, nil
}

// toggle returns the liker set with userID XOR'd in, plus the resulting
// membership state.
func toggle(likers []string, userID string) ([]string, bool) {
	for i, l := range likers {
		if l == userID {
			return append(likers[:i:i], likers[i+1:]...), false
		}
	}
	return append(likers, userID), true
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKudos(row rowScanner) (*kudos.Kudos, error) {
	var (
		id, senderID, recipientID, category, message string
		likers                                       []string
		createdAt                                    time.Time
	)
	if err := row.Scan(&id, &senderID, &recipientID, &category, &message, &likers, &createdAt); err != nil {
		return nil, err
	}

	k := &kudos.Kudos{
		ID:          shared.KudosID(id),
		SenderID:    shared.UserID(senderID),
		RecipientID: shared.UserID(recipientID),
		Category:    shared.Category(category),
		Message:     message,
		CreatedAt:   createdAt,
		Likers:      make([]shared.UserID, len(likers)),
	}
	for i, l := range likers {
		k.Likers[i] = shared.UserID(l)
	}
	return k, nil
}

func scanKudosRows(rows pgx.Rows) ([]*kudos.Kudos, error) {
	var out []*kudos.Kudos
	for rows.Next() {
		k, err := scanKudos(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "scan", shared.ErrServiceUnavailable, "row scan failed", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "scan", shared.ErrServiceUnavailable, "row iteration failed", err)
	}
	return out, nil
}
