package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pivovar/internal/logger"
	"pivovar/internal/models"
	"pivovar/internal/store"
)

func newTestPhaseService(repo *fakePhaseRepo, events *fakeEventRepo) (*PhaseService, *store.Store) {
	s := store.New()
	s.SetDevice(models.WashMachine{Name: "wm1", Phases: []string{"fill", "wash", "rinse"}})
	return NewPhaseService(s, repo, events, logger.Nop()), s
}

func TestReorder_PersistsAndAppliesToStore(t *testing.T) {
	repo := newFakePhaseRepo()
	events := &fakeEventRepo{}
	svc, s := newTestPhaseService(repo, events)

	var kinds []store.ChangeKind
	s.Subscribe(func(c store.Change) { kinds = append(kinds, c.Kind) })

	want := []string{"rinse", "fill", "wash"}
	wm, err := svc.Reorder(context.Background(), "wm1", want)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if !reflect.DeepEqual(wm.Phases, want) {
		t.Fatalf("returned phases %v", wm.Phases)
	}
	if got, _ := s.Get("wm1"); !reflect.DeepEqual(got.Phases, want) {
		t.Fatalf("store phases %v", got.Phases)
	}
	if !reflect.DeepEqual(repo.saved["wm1"], want) {
		t.Fatalf("persisted phases %v", repo.saved["wm1"])
	}
	if !reflect.DeepEqual(kinds, []store.ChangeKind{store.ChangePhases}) {
		t.Fatalf("unexpected notifications %v", kinds)
	}
	if got := events.types(); !reflect.DeepEqual(got, []string{models.EventReorder}) {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestReorder_Errors(t *testing.T) {
	cases := []struct {
		name    string
		device  string
		phases  []string
		saveErr error
		wantErr error
	}{
		{"unknown device", "ghost", []string{"fill"}, nil, ErrWashMachineNotFound},
		{"missing phase", "wm1", []string{"fill", "wash"}, nil, ErrInvalidPhaseOrder},
		{"foreign phase", "wm1", []string{"fill", "wash", "dry"}, nil, ErrInvalidPhaseOrder},
		{"duplicate phase", "wm1", []string{"fill", "fill", "wash"}, nil, ErrInvalidPhaseOrder},
		{"repo failure", "wm1", []string{"wash", "fill", "rinse"}, errors.New("db down"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakePhaseRepo()
			repo.saveErr = tc.saveErr
			svc, s := newTestPhaseService(repo, &fakeEventRepo{})

			_, err := svc.Reorder(context.Background(), tc.device, tc.phases)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.saveErr != nil && !errors.Is(err, tc.saveErr) {
				t.Fatalf("expected repo error, got %v", err)
			}
			if got, _ := s.Get("wm1"); !reflect.DeepEqual(got.Phases, []string{"fill", "wash", "rinse"}) {
				t.Fatalf("store changed on error: %v", got.Phases)
			}
		})
	}
}

func Test_isPermutation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{[]string{}, nil, true},
		{[]string{"a", "b"}, []string{"b", "a"}, true},
		{[]string{"a", "a", "b"}, []string{"a", "b", "a"}, true},
		{[]string{"a", "a", "b"}, []string{"a", "b", "b"}, false},
		{[]string{"a"}, []string{"a", "b"}, false},
	}
	for _, c := range cases {
		if got := isPermutation(c.a, c.b); got != c.want {
			t.Fatalf("isPermutation(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
