package query

import (
	"context"
	"strings"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET FEED QUERY
// Returns the public kudos wall: events joined with like counts and sender/
// recipient display names, newest first. The category filter and the search
// text compose with logical AND; search is a case-insensitive substring match
// over message, sender name and recipient name.
// ══════════════════════════════════════════════════════════════════════════════

// GetFeedQuery contains the feed read parameters.
type GetFeedQuery struct {
	// ViewerID is the authenticated user, used to mark entries they like.
	ViewerID shared.UserID

	// Category filters by exact category. Empty or "All" means no filter.
	Category shared.Category

	// Search is the case-insensitive substring filter. Empty means no filter.
	Search string

	// Pagination slices the filtered feed. Zero value = first default page.
	Pagination shared.Pagination
}

// Validate checks the query parameters.
func (q GetFeedQuery) Validate() error {
	if q.Category != "" && q.Category != shared.CategoryAll && !q.Category.IsValid() {
		return shared.ErrUnknownCategory
	}
	return nil
}

// FeedUserDTO names one side of a kudos event.
type FeedUserDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FeedEntryDTO is one kudos event as the wall renders it.
type FeedEntryDTO struct {
	ID        string      `json:"id"`
	From      FeedUserDTO `json:"from"`
	To        FeedUserDTO `json:"to"`
	Category  string      `json:"category"`
	Message   string      `json:"message"`
	LikeCount int         `json:"like_count"`
	Liked     bool        `json:"liked"`
	CreatedAt time.Time   `json:"created_at"`
}

// GetFeedResult is the feed read shape.
type GetFeedResult struct {
	Entries    []FeedEntryDTO `json:"entries"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// GetFeedHandler serves feed reads.
type GetFeedHandler struct {
	store     kudos.EventStore
	directory user.Directory
}

// NewGetFeedHandler creates a feed query handler.
func NewGetFeedHandler(store kudos.EventStore, directory user.Directory) *GetFeedHandler {
	return &GetFeedHandler{store: store, directory: directory}
}

// Handle executes the feed read.
func (h *GetFeedHandler) Handle(ctx context.Context, q GetFeedQuery) (*GetFeedResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	events, err := h.store.ListEvents(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetFeed", shared.ErrServiceUnavailable, "failed to load events", err)
	}

	users, err := h.directory.ListUsers(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetFeed", shared.ErrServiceUnavailable, "failed to load user directory", err)
	}
	byID := user.IndexByID(users)

	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]FeedEntryDTO, 0, len(events))
	for _, e := range events {
		if !e.MatchesFilter(q.Category) {
			continue
		}

		entry := h.toDTO(e, byID, q.ViewerID)
		if !matchesSearch(entry, search) {
			continue
		}
		filtered = append(filtered, entry)
	}

	page := shared.NewPagination(q.Pagination.Page, q.Pagination.PageSize)
	return &GetFeedResult{
		Entries:    paginate(filtered, page),
		TotalCount: len(filtered),
		Page:       page.Page,
		PageSize:   page.Limit(),
	}, nil
}

// matchesSearch applies the substring filter over message and both names.
func matchesSearch(e FeedEntryDTO, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), search) ||
		strings.Contains(strings.ToLower(e.From.Name), search) ||
		strings.Contains(strings.ToLower(e.To.Name), search)
}

func (h *GetFeedHandler) toDTO(e *kudos.Kudos, byID map[shared.UserID]*user.User, viewer shared.UserID) FeedEntryDTO {
	return FeedEntryDTO{
		ID:        e.ID.String(),
		From:      feedUser(e.SenderID, byID),
		To:        feedUser(e.RecipientID, byID),
		Category:  e.Category.String(),
		Message:   e.Message,
		LikeCount: e.LikeCount(),
		Liked:     viewer.IsValid() && e.LikedBy(viewer),
		CreatedAt: e.CreatedAt,
	}
}

// feedUser resolves a directory name, falling back to the opaque ID for
// users the directory no longer returns.
func feedUser(id shared.UserID, byID map[shared.UserID]*user.User) FeedUserDTO {
	if u, ok := byID[id]; ok {
		return FeedUserDTO{ID: id.String(), Name: u.DisplayName()}
	}
	return FeedUserDTO{ID: id.String(), Name: id.String()}
}

func paginate(entries []FeedEntryDTO, p shared.Pagination) []FeedEntryDTO {
	offset := p.Offset()
	if offset >= len(entries) {
		return []FeedEntryDTO{}
	}
	end := offset + p.Limit()
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}
