// Package progression maps a user's received-kudos count to a gamification
// level via a fixed, ordered threshold table. The lookup is an explicit
// ordered search with Rookie(0) as the defined base case, so any non-negative
// input resolves to a level.
package progression

import (
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
)

// MaxLevelName is the terminal "next level" marker for users at the top.
const MaxLevelName = "Max Level"

// Level is one row of the threshold table.
type Level struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// levels is the fixed threshold table, ascending. The first threshold must
// be 0 so every non-negative count has a level.
var levels = []Level{
	{Name: "Rookie", Threshold: 0},
	{Name: "Rising Star", Threshold: 10},
	{Name: "Champion", Threshold: 25},
	{Name: "Elite", Threshold: 50},
	{Name: "Legend", Threshold: 100},
}

// Levels returns a copy of the threshold table.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// State is the derived progression state for one user. It is never persisted.
type State struct {
	// Level is the current level name.
	Level string `json:"level"`

	// Progress is the fraction of the way to the next level, in [0, 1].
	// 1.0 at the terminal level.
	Progress float64 `json:"progress"`

	// NextLevel is the next level name, or MaxLevelName at the top.
	NextLevel string `json:"next_level"`
}

// LevelOf maps a received-kudos count to its progression state.
// Negative input is a caller contract violation.
func LevelOf(kudosReceived int) (State, error) {
	if kudosReceived < 0 {
		return State{}, shared.ErrNegativeKudosCount
	}

	// Highest threshold <= kudosReceived. The table is small enough that a
	// linear scan beats anything cleverer.
	current := 0
	for i, l := range levels {
		if kudosReceived >= l.Threshold {
			current = i
		}
	}

	if current == len(levels)-1 {
		return State{
			Level:     levels[current].Name,
			Progress:  1.0,
			NextLevel: MaxLevelName,
		}, nil
	}

	next := levels[current+1]
	span := next.Threshold - levels[current].Threshold
	progress := float64(kudosReceived-levels[current].Threshold) / float64(span)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return State{
		Level:     levels[current].Name,
		Progress:  progress,
		NextLevel: next.Name,
	}, nil
}
