package service

import (
	"fmt"
	"strings"
	"time"

	"pivovar/internal/models"
)

// LogFilter narrows the event history. Zero bounds and an empty type match everything.
type LogFilter struct {
	From time.Time
	To   time.Time
	Type string
}

// normalized moves both bounds to UTC, canonicalizes the type and checks both.
func (f LogFilter) normalized() (LogFilter, error) {
	out := LogFilter{
		From: utc(f.From),
		To:   utc(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" && !models.IsEventType(out.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}
	return out, nil
}

// utc keeps the zero time zero.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// ReorderParams is the body of a phase reorder request.
type ReorderParams struct {
	Phases []string `json:"phases" binding:"required"`
}
