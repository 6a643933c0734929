// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID is an opaque identifier owned by the external user directory.
// The engine never interprets it beyond equality and map keys.
type UserID string

// IsValid checks that the user ID is non-empty.
func (u UserID) IsValid() bool {
	return strings.TrimSpace(string(u)) != ""
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// NewUserID creates a UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.TrimSpace(id))
	if !uid.IsValid() {
		return "", NewDomainError("shared", "NewUserID", ErrInvalidID, "user ID cannot be empty")
	}
	return uid, nil
}

// KudosID represents a unique kudos event identifier (UUID format).
type KudosID string

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the kudos ID is a valid UUID.
func (k KudosID) IsValid() bool {
	return uuidRegex.MatchString(string(k))
}

// String returns the string representation.
func (k KudosID) String() string {
	return string(k)
}

// IsEmpty checks if the ID is empty.
func (k KudosID) IsEmpty() bool {
	return k == ""
}

// NewKudosID creates a KudosID with validation.
func NewKudosID(id string) (KudosID, error) {
	kid := KudosID(strings.ToLower(strings.TrimSpace(id)))
	if !kid.IsValid() {
		return "", NewDomainError("shared", "NewKudosID", ErrInvalidID, "invalid kudos ID format")
	}
	return kid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Category Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Category is a member of the fixed, closed recognition category set.
type Category string

const (
	CategoryTeamwork   Category = "Teamwork"
	CategoryInnovation Category = "Innovation"
	CategoryLeadership Category = "Leadership"
	CategoryExcellence Category = "Excellence"
	CategoryHelp       Category = "Help"
)

// CategoryAll is the feed filter sentinel meaning "no category filter".
// It is never a valid category on a stored event.
const CategoryAll Category = "All"

// Categories returns the fixed category set in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryTeamwork,
		CategoryInnovation,
		CategoryLeadership,
		CategoryExcellence,
		CategoryHelp,
	}
}

// IsValid checks membership in the fixed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTeamwork, CategoryInnovation, CategoryLeadership, CategoryExcellence, CategoryHelp:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// NewCategory creates a Category with validation against the fixed set.
func NewCategory(value string) (Category, error) {
	c := Category(strings.TrimSpace(value))
	if !c.IsValid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period used for windowed aggregation.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Contains checks if a time is within the range (inclusive on both ends).
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// LastNDays returns a TimeRange ending at now and reaching back N days.
func LastNDays(now time.Time, n int) TimeRange {
	return TimeRange{From: now.AddDate(0, 0, -n), To: now}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters for feed and leaderboard reads.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for slicing result sets.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the effective page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a Pagination with defaults applied.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}
