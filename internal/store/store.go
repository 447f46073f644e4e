// Package store holds the last-known state of every discovered wash machine and
// notifies subscribers when it changes.
package store

import (
	"errors"
	"fmt"
	"sync"

	"pivovar/internal/models"
)

// ErrUnknownDevice is returned when a write targets a device that was never discovered.
var ErrUnknownDevice = errors.New("unknown wash machine")

// ChangeKind tells subscribers which part of a device changed.
type ChangeKind string

const (
	ChangeDevice  ChangeKind = "device"
	ChangeTempLog ChangeKind = "temp_log"
	ChangePhases  ChangeKind = "phases"
)

// Change is delivered to subscribers after a write. Device is a copy of the new state.
type Change struct {
	Kind   ChangeKind
	Device models.WashMachine
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Store maps device names to their state and keeps the order in which they were added.
type Store struct {
	mu      sync.RWMutex
	devices map[string]models.WashMachine
	order   []string

	subMu  sync.Mutex
	nextID uint64
	subs   []subscriber
}

// New returns an empty store.
func New() *Store {
	return &Store{devices: make(map[string]models.WashMachine)}
}

// SetDevice inserts or replaces a device under its name.
func (s *Store) SetDevice(wm models.WashMachine) {
	wm = wm.Clone()

	s.mu.Lock()
	if _, ok := s.devices[wm.Name]; !ok {
		s.order = append(s.order, wm.Name)
	}
	s.devices[wm.Name] = wm
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeDevice, Device: wm.Clone()})
}

// SetTempLog replaces only the temperature log of an existing device.
// Writing a log equal to the current one changes nothing and notifies nobody.
func (s *Store) SetTempLog(name string, log models.TempLog) error {
	s.mu.Lock()
	wm, ok := s.devices[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("set temp log for %q: %w", name, ErrUnknownDevice)
	}
	if wm.TempLog.Equal(log) {
		s.mu.Unlock()
		return nil
	}
	wm.TempLog = log.Clone()
	s.devices[name] = wm
	out := wm.Clone()
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeTempLog, Device: out})
	return nil
}

// SetPhases replaces the phase order of an existing device.
func (s *Store) SetPhases(name string, phases []string) error {
	s.mu.Lock()
	wm, ok := s.devices[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("set phases for %q: %w", name, ErrUnknownDevice)
	}
	wm.Phases = append([]string(nil), phases...)
	s.devices[name] = wm
	out := wm.Clone()
	s.mu.Unlock()

	s.publish(Change{Kind: ChangePhases, Device: out})
	return nil
}

// Get returns a copy of one device.
func (s *Store) Get(name string) (models.WashMachine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wm, ok := s.devices[name]
	if !ok {
		return models.WashMachine{}, false
	}
	return wm.Clone(), true
}

// Names returns the current device names in insertion order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Snapshot returns copies of all devices in insertion order.
func (s *Store) Snapshot() []models.WashMachine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WashMachine, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.devices[name].Clone())
	}
	return out
}

// Len returns the number of known devices.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Subscribe registers fn to be called after every change. Callbacks run on the
// writer's goroutine, outside the store lock, in subscription order; they must not block.
// The returned function unregisters fn and may be called more than once.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered callbacks.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
