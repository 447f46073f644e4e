package service

import (
	"context"
	"sync"
	"time"

	"pivovar/internal/models"
)

// fakeEventRepo satisfies repository.EventRepo and records what it is given.
type fakeEventRepo struct {
	mu sync.Mutex

	gotCtx  context.Context
	gotFrom time.Time
	gotTo   time.Time
	gotType string

	events    []models.Event
	err       error
	appendErr error

	appended []models.Event
	calls    int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// fakePhaseRepo satisfies repository.PhaseRepo.
type fakePhaseRepo struct {
	mu      sync.Mutex
	saved   map[string][]string
	loadErr error
	saveErr error
}

func newFakePhaseRepo() *fakePhaseRepo {
	return &fakePhaseRepo{saved: make(map[string][]string)}
}

func (f *fakePhaseRepo) Save(_ context.Context, name string, phases []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[name] = append([]string(nil), phases...)
	return nil
}

func (f *fakePhaseRepo) Load(_ context.Context, name string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.saved[name], nil
}

// fakeWashClient serves canned responses per device.
type fakeWashClient struct {
	mu sync.Mutex

	wm    models.WashMachine
	wmErr error

	logs map[string]models.TempLog
	errs map[string]error

	requested []string
	calls     map[string]int

	// script, when set, picks the answer and its delay per device and call
	// number (1-based). A negative delay blocks until the request's ctx ends.
	script func(name string, call int) (models.TempLog, time.Duration)
}

func newFakeWashClient() *fakeWashClient {
	return &fakeWashClient{
		logs:  make(map[string]models.TempLog),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeWashClient) WashMachine(context.Context) (models.WashMachine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wm.Clone(), f.wmErr
}

func (f *fakeWashClient) TempLog(ctx context.Context, name string) (models.TempLog, error) {
	f.mu.Lock()
	f.requested = append(f.requested, name)
	f.calls[name]++
	call, script := f.calls[name], f.script
	if err := f.errs[name]; err != nil {
		f.mu.Unlock()
		return models.TempLog{}, err
	}
	log := f.logs[name].Clone()
	f.mu.Unlock()

	if script == nil {
		return log, nil
	}
	log, delay := script(name, call)
	if delay < 0 {
		<-ctx.Done()
		return models.TempLog{}, ctx.Err()
	}
	select {
	case <-time.After(delay):
		return log, nil
	case <-ctx.Done():
		return models.TempLog{}, ctx.Err()
	}
}

func (f *fakeWashClient) setScript(fn func(name string, call int) (models.TempLog, time.Duration)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = fn
}

func (f *fakeWashClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requested {
		if r == name {
			n++
		}
	}
	return n
}

func (f *fakeWashClient) setLog(name string, log models.TempLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[name] = log
}

func (f *fakeWashClient) setErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeWashClient) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}
