package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pivovar/internal/logger"
	"pivovar/internal/metrics"
	"pivovar/internal/models"
	"pivovar/internal/repository"
	"pivovar/internal/store"
)

// DefaultPollTimeout bounds one temp log request when none is configured.
const DefaultPollTimeout = 5 * time.Second

// PollerService fetches the temperature log of every known device on each tick.
type PollerService struct {
	store     *store.Store
	client    WashClient
	eventRepo repository.EventRepo
	metrics   metrics.Recorder
	log       *logger.Logger
	timeout   time.Duration

	mu      sync.Mutex
	issued  map[string]uint64 // last sequence handed to a request, per device
	applied map[string]uint64 // sequence of the response currently in the store
	failing map[string]bool
}

func NewPollerService(
	s *store.Store,
	client WashClient,
	eventRepo repository.EventRepo,
	m metrics.Recorder,
	log *logger.Logger,
	timeout time.Duration,
) *PollerService {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &PollerService{
		store:     s,
		client:    client,
		eventRepo: eventRepo,
		metrics:   m,
		log:       log,
		timeout:   timeout,
		issued:    make(map[string]uint64),
		applied:   make(map[string]uint64),
		failing:   make(map[string]bool),
	}
}

// Run starts a round of requests at every interval until ctx is canceled.
// A round does not wait for the previous one, so a hung device never delays
// the others; overlapping responses for one device are ordered by apply.
// Run returns once the requests still in flight have finished.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	var inflight sync.WaitGroup
	defer inflight.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.start(ctx, &inflight)
		}
	}
}

// Tick runs one round and returns once every request of it finished.
func (p *PollerService) Tick(ctx context.Context) {
	var wg sync.WaitGroup
	p.start(ctx, &wg)
	wg.Wait()
}

// start requests the temp log of every device known right now, one goroutine
// per device.
func (p *PollerService) start(ctx context.Context, wg *sync.WaitGroup) {
	for _, name := range p.store.Names() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			p.poll(ctx, name)
		}(name)
	}
}

func (p *PollerService) poll(ctx context.Context, name string) {
	seq := p.nextSeq(name)

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	log, err := p.client.TempLog(reqCtx, name)
	p.metrics.Poll(name, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.fail(ctx, name, seq, err)
		return
	}

	applied, err := p.apply(name, seq, log)
	if err != nil {
		p.fail(ctx, name, seq, err)
		return
	}
	if !applied {
		p.log.Debugw("stale_temp_log_dropped", "device", name, "seq", seq)
		return
	}
	p.log.Debugw("temp_log_applied", "device", name, "points", log.Len())
	if v, ok := log.Latest(); ok {
		p.metrics.Temperature(name, v)
	}
	p.recover(ctx, name)
}

func (p *PollerService) nextSeq(name string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued[name]++
	return p.issued[name]
}

// apply writes log unless a newer response for the device already landed.
func (p *PollerService) apply(name string, seq uint64, log models.TempLog) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.applied[name] {
		return false, nil
	}
	if err := p.store.SetTempLog(name, log); err != nil {
		return false, fmt.Errorf("apply temp log: %w", err)
	}
	p.applied[name] = seq
	return true, nil
}

// fail logs every failure but records an event only on the transition into
// the failing state. A failure older than the applied response changes nothing.
func (p *PollerService) fail(ctx context.Context, name string, seq uint64, err error) {
	p.log.Errorw("poll_failed", "device", name, "seq", seq, "err", err)

	p.mu.Lock()
	already := p.failing[name]
	stale := seq < p.applied[name]
	if !stale {
		p.failing[name] = true
	}
	p.mu.Unlock()
	if already || stale {
		return
	}
	p.appendEvent(ctx, models.Event{
		Type:        models.EventPollError,
		Description: fmt.Sprintf("Temperature log of %s unavailable", name),
		Metadata:    map[string]any{"wash_machine": name, "error": err.Error()},
	})
}

func (p *PollerService) recover(ctx context.Context, name string) {
	p.mu.Lock()
	was := p.failing[name]
	delete(p.failing, name)
	p.mu.Unlock()
	if !was {
		return
	}
	p.log.Infow("poll_recovered", "device", name)
	p.appendEvent(ctx, models.Event{
		Type:        models.EventPollRecovered,
		Description: fmt.Sprintf("Temperature log of %s available again", name),
		Metadata:    map[string]any{"wash_machine": name},
	})
}

func (p *PollerService) appendEvent(ctx context.Context, e models.Event) {
	e.EventID = uuid.NewString()
	e.OccurredAt = time.Now().UTC()
	if err := p.eventRepo.Append(ctx, e); err != nil {
		p.log.Warnw("event_append_failed", "type", e.Type, "err", err)
	}
}
