package domain

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the categorical urgency of a todo.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ParsePriority accepts HIGH, MEDIUM or LOW in any case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("priority must be one of HIGH, MEDIUM, LOW, got %q", s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank maps a priority onto a comparable number. Unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Todo is the domain entity. It does not depend on gin, Postgres or Redis.
type Todo struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	IsPinned    bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is filled by the store for display.
	Owner *UserProfile
}

// ToggleField names a boolean column that can be negated in place.
type ToggleField string

const (
	ToggleCompleted ToggleField = "completed"
	TogglePinned    ToggleField = "is_pinned"
)

// Stats are per-owner counters.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	High      int
	Medium    int
	Low       int
}
