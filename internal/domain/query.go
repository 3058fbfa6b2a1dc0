package domain

import (
	"fmt"
	"math"
)

type SortBy string

const (
	SortByCreatedAt SortBy = "createdAt"
	SortByPriority  SortBy = "priority"
	SortByDueDate   SortBy = "dueDate"
	SortByTitle     SortBy = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListQuery holds the caller-supplied list parameters.
type ListQuery struct {
	Completed *bool
	Priority  *Priority
	Search    string

	SortBy    SortBy
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize fills defaults and rejects unknown sort keys.
func (q ListQuery) Normalize() (ListQuery, error) {
	switch q.SortBy {
	case "":
		q.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByPriority, SortByDueDate, SortByTitle:
	default:
		return q, fmt.Errorf("unknown sortBy %q", q.SortBy)
	}
	switch q.SortOrder {
	case "":
		q.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return q, fmt.Errorf("unknown sortOrder %q", q.SortOrder)
	}
	if q.Priority != nil && !q.Priority.Valid() {
		return q, fmt.Errorf("unknown priority %q", *q.Priority)
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q, nil
}

// Offset is the number of rows skipped before the page. It saturates at
// math.MaxInt instead of wrapping, so a far-off page reads as empty.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Filter is the row predicate part of the query.
func (q ListQuery) Filter(ownerID string) TodoFilter {
	return TodoFilter{
		OwnerID:   ownerID,
		Completed: q.Completed,
		Priority:  q.Priority,
		Search:    q.Search,
	}
}

// TodoFilter is the predicate handed to the store. All set fields are ANDed;
// Search matches title OR description, case-insensitively.
type TodoFilter struct {
	OwnerID   string
	Completed *bool
	Priority  *Priority
	Search    string
}

// OrderField is a sortable store column.
type OrderField string

const (
	OrderPinned    OrderField = "is_pinned"
	OrderCreatedAt OrderField = "created_at"
	OrderDueDate   OrderField = "due_date"
	OrderTitle     OrderField = "title"
)

type OrderTerm struct {
	Field OrderField
	Desc  bool
}

// Window limits a store read. A nil *Window reads everything.
type Window struct {
	Offset int
	Limit  int
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// TodoPage is one page of a list result.
type TodoPage struct {
	Items      []Todo
	Pagination Pagination
}

// TotalPages is ceil(total/limit), and 0 for an empty result.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return 1 + (total-1)/limit
}
