// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT KUDOS COMMAND
// Appends one recognition event to the store. Events are immutable after this
// point except for their liker set. Self-kudos is neither validated nor
// rejected: current product rules leave it unspecified.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitKudosCommand contains the data for one new kudos event.
type SubmitKudosCommand struct {
	// SenderID is the authenticated user giving the kudos.
	SenderID shared.UserID

	// RecipientID is the user being recognized.
	RecipientID shared.UserID

	// Category must be a member of the fixed category set.
	Category shared.Category

	// Message is the free-text commendation.
	Message string
}

// Validate checks the command.
func (c SubmitKudosCommand) Validate() error {
	if !c.SenderID.IsValid() {
		return shared.ErrMissingSender
	}
	if !c.RecipientID.IsValid() {
		return shared.ErrMissingRecipient
	}
	if !c.Category.IsValid() {
		return shared.ErrUnknownCategory
	}
	if len(c.Message) == 0 {
		return shared.ErrEmptyMessage
	}
	return nil
}

// SubmitKudosResult is the command outcome.
type SubmitKudosResult struct {
	KudosID   string    `json:"kudos_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitKudosHandler handles kudos submission.
type SubmitKudosHandler struct {
	store     kudos.EventStore
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewSubmitKudosHandler creates a submit handler. Publisher may be nil.
func NewSubmitKudosHandler(store kudos.EventStore, publisher shared.EventPublisher, log *logger.Logger) *SubmitKudosHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &SubmitKudosHandler{
		store:     store,
		publisher: publisher,
		log:       log.With(logger.Component("submit_kudos")),
	}
}

// Handle executes the command.
func (h *SubmitKudosHandler) Handle(ctx context.Context, cmd SubmitKudosCommand) (*SubmitKudosResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.KudosID(uuid.NewString())
	now := time.Now().UTC()

	k, err := kudos.New(id, cmd.SenderID, cmd.RecipientID, cmd.Category, cmd.Message, now)
	if err != nil {
		return nil, err
	}

	if err := h.store.AppendEvent(ctx, k); err != nil {
		return nil, shared.WrapError("command", "SubmitKudos", shared.ErrServiceUnavailable, "failed to append event", err)
	}

	event := shared.KudosSubmittedEvent{
		BaseEvent:   shared.NewBaseEvent(shared.EventKudosSubmitted, id.String()),
		SenderID:    cmd.SenderID.String(),
		RecipientID: cmd.RecipientID.String(),
		Category:    cmd.Category.String(),
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		// The event is committed; a publish failure only delays cache
		// invalidation until the TTL expires.
		h.log.Warn("failed to publish kudos.submitted", logger.KudosID(id.String()), logger.Err(err))
	}

	h.log.Info("kudos submitted",
		logger.KudosID(id.String()),
		logger.UserID(cmd.SenderID.String()),
		logger.Category(cmd.Category.String()),
	)

	return &SubmitKudosResult{KudosID: id.String(), CreatedAt: k.CreatedAt}, nil
}
