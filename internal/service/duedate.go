package service

import (
	"strings"
	"time"
)

var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDueDate accepts date-only ("2006-01-02", stored as start of that day
// in UTC) or an RFC3339 datetime. Blank input means "no due date".
func parseDueDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, ErrInvalidDueDate
}
