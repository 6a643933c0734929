// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/progression"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// Returns one user's recognition stats plus the global category breakdown.
// Consumed by the dashboard and profile views.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsQuery contains the parameters for a stats read.
type GetStatsQuery struct {
	// UserID is the authenticated user whose stats are requested.
	UserID shared.UserID
}

// Validate checks the query parameters.
func (q GetStatsQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.NewDomainError("query", "GetStats", shared.ErrInvalidID, "user ID is required")
	}
	return nil
}

// CategoryStatDTO is one (category, count) pair of a breakdown.
type CategoryStatDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// LevelDTO is the derived progression state.
type LevelDTO struct {
	Level     string  `json:"level"`
	Progress  float64 `json:"progress"`
	NextLevel string  `json:"next_level"`
}

// GetStatsResult is the stats read shape.
type GetStatsResult struct {
	UserID        string `json:"user_id"`
	KudosReceived int    `json:"kudos_received"`
	KudosGiven    int    `json:"kudos_given"`

	// CategoryStats is the global per-category breakdown, ordered by count
	// descending then category name ascending.
	CategoryStats []CategoryStatDTO `json:"category_stats"`

	// UserCategoryStats is the user's own received breakdown, same ordering.
	UserCategoryStats []CategoryStatDTO `json:"user_category_stats"`

	// Level is the user's progression state derived from kudos received.
	Level LevelDTO `json:"level"`

	GeneratedAt time.Time `json:"generated_at"`
}

// GetStatsHandler serves stats reads.
type GetStatsHandler struct {
	store kudos.EventStore
}

// NewGetStatsHandler creates a stats query handler.
func NewGetStatsHandler(store kudos.EventStore) *GetStatsHandler {
	return &GetStatsHandler{store: store}
}

// Handle executes the stats read.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*GetStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	events, err := h.store.ListEvents(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetStats", shared.ErrServiceUnavailable, "failed to load events", err)
	}

	agg, err := stats.Compute(events, stats.Options{})
	if err != nil {
		return nil, err
	}

	userStat := agg.StatFor(q.UserID)

	level, err := progression.LevelOf(userStat.KudosReceived)
	if err != nil {
		return nil, err
	}

	return &GetStatsResult{
		UserID:            q.UserID.String(),
		KudosReceived:     userStat.KudosReceived,
		KudosGiven:        userStat.KudosGiven,
		CategoryStats:     toCategoryDTOs(agg.PerCategory),
		UserCategoryStats: toCategoryDTOs(agg.CategoryStatsFor(q.UserID)),
		Level: LevelDTO{
			Level:     level.Level,
			Progress:  level.Progress,
			NextLevel: level.NextLevel,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func toCategoryDTOs(in []stats.CategoryStat) []CategoryStatDTO {
	out := make([]CategoryStatDTO, len(in))
	for i, c := range in {
		out[i] = CategoryStatDTO{Category: c.Category.String(), Count: c.Count}
	}
	return out
}
