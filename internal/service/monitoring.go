package service

import (
	"context"

	"pivovar/internal/models"
	"pivovar/internal/store"
)

type MonitoringService struct {
	store *store.Store
}

func NewMonitoringService(s *store.Store) *MonitoringService {
	return &MonitoringService{store: s}
}

// WashMachines returns every known device in discovery order.
func (s *MonitoringService) WashMachines(_ context.Context) []models.WashMachine {
	return s.store.Snapshot()
}

func (s *MonitoringService) WashMachine(_ context.Context, name string) (models.WashMachine, error) {
	wm, ok := s.store.Get(name)
	if !ok {
		return models.WashMachine{}, ErrWashMachineNotFound
	}
	return wm, nil
}
