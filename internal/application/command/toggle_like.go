package command

import (
	"context"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE LIKE COMMAND
// Idempotent XOR on an event's liker set: liking twice restores the original
// state. Contention handling lives inside the registry; callers never retry.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleLikeCommand identifies the event and the acting user.
type ToggleLikeCommand struct {
	KudosID shared.KudosID
	UserID  shared.UserID
}

// Validate checks the command.
func (c ToggleLikeCommand) Validate() error {
	if c.KudosID.IsEmpty() {
		return shared.NewDomainError("command", "ToggleLike", shared.ErrInvalidID, "kudos ID is required")
	}
	if !c.UserID.IsValid() {
		return shared.NewDomainError("command", "ToggleLike", shared.ErrInvalidID, "user ID is required")
	}
	return nil
}

// ToggleLikeResult is the command outcome.
type ToggleLikeResult struct {
	// Liked is the membership state after the toggle.
	Liked bool `json:"liked"`

	// LikeCount is the event's like count after the toggle.
	LikeCount int `json:"like_count"`
}

// ToggleLikeHandler handles like toggles.
type ToggleLikeHandler struct {
	registry  kudos.LikeRegistry
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewToggleLikeHandler creates a toggle handler. Publisher may be nil.
func NewToggleLikeHandler(registry kudos.LikeRegistry, publisher shared.EventPublisher, log *logger.Logger) *ToggleLikeHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &ToggleLikeHandler{
		registry:  registry,
		publisher: publisher,
		log:       log.With(logger.Component("toggle_like")),
	}
}

// Handle executes the command.
func (h *ToggleLikeHandler) Handle(ctx context.Context, cmd ToggleLikeCommand) (*ToggleLikeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	res, err := h.registry.ToggleLike(ctx, cmd.KudosID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	event := shared.LikeToggledEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventLikeToggled, cmd.KudosID.String()),
		UserID:    cmd.UserID.String(),
		Liked:     res.Liked,
		LikeCount: res.LikeCount,
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.log.Warn("failed to publish kudos.like_toggled", logger.KudosID(cmd.KudosID.String()), logger.Err(err))
	}

	return &ToggleLikeResult{Liked: res.Liked, LikeCount: res.LikeCount}, nil
}
