package service

import (
	"context"
	"errors"
	"testing"

	"pivovar/internal/models"
	"pivovar/internal/store"
)

func TestMonitoringService(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.SetDevice(models.WashMachine{Name: "wm2"})
	s.SetDevice(models.WashMachine{Name: "wm1", Phases: []string{"fill"}})
	svc := NewMonitoringService(s)

	all := svc.WashMachines(context.Background())
	if len(all) != 2 || all[0].Name != "wm2" || all[1].Name != "wm1" {
		t.Fatalf("expected discovery order, got %+v", all)
	}

	wm, err := svc.WashMachine(context.Background(), "wm1")
	if err != nil || wm.Phases[0] != "fill" {
		t.Fatalf("unexpected result %+v, %v", wm, err)
	}

	if _, err := svc.WashMachine(context.Background(), "nope"); !errors.Is(err, ErrWashMachineNotFound) {
		t.Fatalf("expected ErrWashMachineNotFound, got %v", err)
	}
}
