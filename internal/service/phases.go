package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pivovar/internal/logger"
	"pivovar/internal/models"
	"pivovar/internal/repository"
	"pivovar/internal/store"
)

type PhaseService struct {
	store     *store.Store
	phaseRepo repository.PhaseRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewPhaseService(s *store.Store, phaseRepo repository.PhaseRepo, eventRepo repository.EventRepo, log *logger.Logger) *PhaseService {
	return &PhaseService{store: s, phaseRepo: phaseRepo, eventRepo: eventRepo, log: log}
}

// Reorder persists a new phase order and applies it to the store.
// The order must contain exactly the device's current phases.
func (s *PhaseService) Reorder(ctx context.Context, name string, phases []string) (models.WashMachine, error) {
	wm, ok := s.store.Get(name)
	if !ok {
		return models.WashMachine{}, ErrWashMachineNotFound
	}
	if !isPermutation(phases, wm.Phases) {
		return models.WashMachine{}, ErrInvalidPhaseOrder
	}

	if err := s.phaseRepo.Save(ctx, name, phases); err != nil {
		return models.WashMachine{}, err
	}
	if err := s.store.SetPhases(name, phases); err != nil {
		if errors.Is(err, store.ErrUnknownDevice) {
			return models.WashMachine{}, ErrWashMachineNotFound
		}
		return models.WashMachine{}, fmt.Errorf("apply phases of %q: %w", name, err)
	}

	if err := s.eventRepo.Append(ctx, models.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventReorder,
		Description: fmt.Sprintf("Phases of %s reordered", name),
		Metadata:    map[string]any{"wash_machine": name, "from": wm.Phases, "to": phases},
	}); err != nil {
		s.log.Warnw("event_append_failed", "type", models.EventReorder, "err", err)
	}
	s.log.Infow("phases_reordered", "wash_machine", name, "phases", phases)

	wm.Phases = append([]string(nil), phases...)
	return wm, nil
}

// isPermutation reports whether a and b hold the same phases, counting repeats.
func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(b))
	for _, p := range b {
		seen[p]++
	}
	for _, p := range a {
		if seen[p] == 0 {
			return false
		}
		seen[p]--
	}
	return true
}
