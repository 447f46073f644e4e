package service

import (
	"context"
	"fmt"

	"pivovar/internal/models"
	"pivovar/internal/repository"
)

// EventLogService answers history queries over the diagnostic events that
// discovery, the poller and reordering record.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

// List returns the events matching f, oldest first. An inverted range or an
// unknown type is rejected before the repository is asked.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.Event, error) {
	f, err := f.normalized()
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, f.From, f.To, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
