package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pivovar/internal/logger"
	"pivovar/internal/metrics"
	"pivovar/internal/models"
	"pivovar/internal/repository"
	"pivovar/internal/store"
)

type DiscoveryService struct {
	store     *store.Store
	client    WashClient
	phaseRepo repository.PhaseRepo
	eventRepo repository.EventRepo
	metrics   metrics.Recorder
	log       *logger.Logger
}

func NewDiscoveryService(
	s *store.Store,
	client WashClient,
	phaseRepo repository.PhaseRepo,
	eventRepo repository.EventRepo,
	m metrics.Recorder,
	log *logger.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		store:     s,
		client:    client,
		phaseRepo: phaseRepo,
		eventRepo: eventRepo,
		metrics:   m,
		log:       log,
	}
}

// Discover fetches the wash machine once and adds it to the store. A failure
// leaves the store untouched; there is no retry.
func (s *DiscoveryService) Discover(ctx context.Context) error {
	wm, err := s.client.WashMachine(ctx)
	s.metrics.Discovery(err)
	if err != nil {
		s.log.Errorw("discovery_failed", "err", err)
		s.appendEvent(ctx, models.Event{
			Type:        models.EventDiscoveryError,
			Description: "Wash machine discovery failed",
			Metadata:    map[string]any{"error": err.Error()},
		})
		return fmt.Errorf("discover wash machine: %w", err)
	}

	if wm.Phases == nil {
		wm.Phases = []string{}
	}
	if saved := s.savedOrder(ctx, wm); saved != nil {
		wm.Phases = saved
	}

	s.store.SetDevice(wm)
	s.log.Infow("wash_machine_discovered", "wash_machine", wm.Name, "phases", len(wm.Phases))
	s.appendEvent(ctx, models.Event{
		Type:        models.EventDiscovery,
		Description: fmt.Sprintf("Discovered wash machine %s", wm.Name),
		Metadata:    map[string]any{"wash_machine": wm.Name, "phases": wm.Phases},
	})
	return nil
}

// savedOrder returns the persisted phase order when it still matches the
// device's phases, nil otherwise.
func (s *DiscoveryService) savedOrder(ctx context.Context, wm models.WashMachine) []string {
	saved, err := s.phaseRepo.Load(ctx, wm.Name)
	if err != nil {
		s.log.Warnw("phase_order_load_failed", "wash_machine", wm.Name, "err", err)
		return nil
	}
	if saved == nil {
		return nil
	}
	if !isPermutation(saved, wm.Phases) {
		s.log.Infow("phase_order_stale", "wash_machine", wm.Name)
		return nil
	}
	return saved
}

func (s *DiscoveryService) appendEvent(ctx context.Context, e models.Event) {
	e.EventID = uuid.NewString()
	e.OccurredAt = time.Now().UTC()
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "type", e.Type, "err", err)
	}
}
