package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"pivovar/internal/logger"
	"pivovar/internal/metrics"
	"pivovar/internal/models"
	"pivovar/internal/store"
)

func newTestPoller(client *fakeWashClient, events *fakeEventRepo, names ...string) (*PollerService, *store.Store) {
	s := store.New()
	for _, n := range names {
		s.SetDevice(models.WashMachine{Name: n, Phases: []string{"fill"}})
	}
	return NewPollerService(s, client, events, metrics.Nop{}, logger.Nop(), time.Second), s
}

func TestTick_WatcherFiresOnceWithSeries(t *testing.T) {
	client := newFakeWashClient()
	series := models.NewTempLog([]string{"1", "2", "3"}, []float64{10, 12, 11})
	client.setLog("wm1", series)
	p, s := newTestPoller(client, &fakeEventRepo{}, "wm1")

	var got []models.TempLog
	s.Subscribe(func(c store.Change) {
		if c.Kind == store.ChangeTempLog && c.Device.Name == "wm1" {
			got = append(got, c.Device.TempLog)
		}
	})

	p.Tick(context.Background())

	if len(got) != 1 {
		t.Fatalf("watcher fired %d times, want 1", len(got))
	}
	if !got[0].Equal(series) {
		t.Fatalf("watcher got %+v, want %+v", got[0], series)
	}
}

func TestTick_FailureKeepsStateAndPollsOthers(t *testing.T) {
	client := newFakeWashClient()
	before := models.NewTempLog([]string{"1"}, []float64{50})
	client.setLog("wm2", models.NewTempLog([]string{"1"}, []float64{20}))
	client.setLog("wm3", models.NewTempLog([]string{"1"}, []float64{30}))
	client.setErr("wm1", errors.New("502 bad gateway"))
	p, s := newTestPoller(client, &fakeEventRepo{}, "wm1", "wm2", "wm3")
	if err := s.SetTempLog("wm1", before); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p.Tick(context.Background())

	wm1, _ := s.Get("wm1")
	if !wm1.TempLog.Equal(before) {
		t.Fatalf("failed poll changed wm1: %+v", wm1.TempLog)
	}
	got := client.requests()
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"wm1", "wm2", "wm3"}) {
		t.Fatalf("expected every device requested, got %v", got)
	}
	wm3, _ := s.Get("wm3")
	if v, _ := wm3.TempLog.Latest(); v != 30 {
		t.Fatalf("wm3 not updated: %+v", wm3.TempLog)
	}
}

func TestTick_SameLogTwiceIsIdempotent(t *testing.T) {
	client := newFakeWashClient()
	client.setLog("wm1", models.NewTempLog([]string{"1", "2"}, []float64{10, 12}))
	p, s := newTestPoller(client, &fakeEventRepo{}, "wm1")

	notifications := 0
	s.Subscribe(func(store.Change) { notifications++ })

	p.Tick(context.Background())
	once := s.Snapshot()
	p.Tick(context.Background())

	if !reflect.DeepEqual(once, s.Snapshot()) {
		t.Fatalf("second identical poll changed state")
	}
	if notifications != 1 {
		t.Fatalf("expected 1 notification, got %d", notifications)
	}
}

func TestRun_PicksUpDevicesDiscoveredLater(t *testing.T) {
	client := newFakeWashClient()
	client.setLog("wm1", models.NewTempLog([]string{"1"}, []float64{1}))
	client.setLog("late", models.NewTempLog([]string{"1"}, []float64{2}))
	p, s := newTestPoller(client, &fakeEventRepo{}, "wm1")

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(ctx, 10*time.Millisecond)
	}()

	waitFor(t, func() bool { return contains(client.requests(), "wm1") })
	s.SetDevice(models.WashMachine{Name: "late"})
	waitFor(t, func() bool { return contains(client.requests(), "late") })

	cancel()
	wg.Wait()

	wm, _ := s.Get("late")
	if v, _ := wm.TempLog.Latest(); v != 2 {
		t.Fatalf("late device not updated: %+v", wm.TempLog)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	p, _ := newTestPoller(newFakeWashClient(), &fakeEventRepo{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func runFor(p *PollerService, interval, d time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, interval)
		close(done)
	}()
	time.Sleep(d)
	cancel()
	<-done
}

func TestRun_HungDeviceDoesNotDelayOthers(t *testing.T) {
	client := newFakeWashClient()
	fast := models.NewTempLog([]string{"1"}, []float64{20})
	client.setScript(func(name string, _ int) (models.TempLog, time.Duration) {
		if name == "slow" {
			return models.TempLog{}, -1
		}
		return fast, 0
	})
	p, s := newTestPoller(client, &fakeEventRepo{}, "slow", "fast")

	runFor(p, 50*time.Millisecond, 600*time.Millisecond)

	// About 12 intervals elapsed; the slow device's 1s timeout must not matter.
	if n := client.count("fast"); n < 6 {
		t.Fatalf("fast device polled %d times, want one request per interval", n)
	}
	if n := client.count("slow"); n < 6 {
		t.Fatalf("slow device requested %d times, want one request per interval", n)
	}
	wm, _ := s.Get("fast")
	if !wm.TempLog.Equal(fast) {
		t.Fatalf("fast device not updated: %+v", wm.TempLog)
	}
}

func TestRun_LateResponseDoesNotOverwriteNewer(t *testing.T) {
	client := newFakeWashClient()
	older := models.NewTempLog([]string{"1"}, []float64{1})
	newer := models.NewTempLog([]string{"1", "2"}, []float64{1, 2})
	client.setScript(func(_ string, call int) (models.TempLog, time.Duration) {
		if call == 1 {
			return older, 250 * time.Millisecond
		}
		return newer, 0
	})
	p, s := newTestPoller(client, &fakeEventRepo{}, "wm1")

	var mu sync.Mutex
	var seen []models.TempLog
	s.Subscribe(func(c store.Change) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, c.Device.TempLog)
	})

	runFor(p, 40*time.Millisecond, 400*time.Millisecond)

	wm, _ := s.Get("wm1")
	if !wm.TempLog.Equal(newer) {
		t.Fatalf("store holds %+v, want the newer log", wm.TempLog)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, l := range seen {
		if l.Equal(older) {
			t.Fatalf("late response of the first request was applied")
		}
	}
}

func TestApply_DropsStaleResponse(t *testing.T) {
	p, s := newTestPoller(newFakeWashClient(), &fakeEventRepo{}, "wm1")
	older := models.NewTempLog([]string{"1"}, []float64{1})
	newer := models.NewTempLog([]string{"1", "2"}, []float64{1, 2})

	first := p.nextSeq("wm1")
	second := p.nextSeq("wm1")

	if ok, err := p.apply("wm1", second, newer); !ok || err != nil {
		t.Fatalf("newer response not applied: ok=%v err=%v", ok, err)
	}
	if ok, err := p.apply("wm1", first, older); ok || err != nil {
		t.Fatalf("stale response applied: ok=%v err=%v", ok, err)
	}
	wm, _ := s.Get("wm1")
	if !wm.TempLog.Equal(newer) {
		t.Fatalf("store holds %+v, want newer log", wm.TempLog)
	}
}

func TestFail_OlderThanAppliedIsIgnored(t *testing.T) {
	events := &fakeEventRepo{}
	p, _ := newTestPoller(newFakeWashClient(), events, "wm1")

	first := p.nextSeq("wm1")
	second := p.nextSeq("wm1")
	if ok, err := p.apply("wm1", second, models.NewTempLog([]string{"1"}, []float64{1})); !ok || err != nil {
		t.Fatalf("apply: ok=%v err=%v", ok, err)
	}
	p.fail(context.Background(), "wm1", first, errors.New("timeout"))

	if got := events.types(); len(got) != 0 {
		t.Fatalf("stale failure recorded events %v", got)
	}
}

func TestApply_UnknownDevice(t *testing.T) {
	p, _ := newTestPoller(newFakeWashClient(), &fakeEventRepo{})
	_, err := p.apply("ghost", p.nextSeq("ghost"), models.TempLog{})
	if !errors.Is(err, store.ErrUnknownDevice) {
		t.Fatalf("expected ErrUnknownDevice, got %v", err)
	}
}

func TestTick_ErrorEventsOnTransitionsOnly(t *testing.T) {
	client := newFakeWashClient()
	client.setErr("wm1", models.ErrTempLogLength)
	events := &fakeEventRepo{}
	p, _ := newTestPoller(client, events, "wm1")

	p.Tick(context.Background())
	p.Tick(context.Background())
	if got := events.types(); !reflect.DeepEqual(got, []string{models.EventPollError}) {
		t.Fatalf("after two failures got events %v", got)
	}

	client.setErr("wm1", nil)
	client.setLog("wm1", models.NewTempLog([]string{"1"}, []float64{3}))
	p.Tick(context.Background())
	p.Tick(context.Background())

	want := []string{models.EventPollError, models.EventPollRecovered}
	if got := events.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
}

func TestTick_NoDevicesNoRequests(t *testing.T) {
	client := newFakeWashClient()
	p, _ := newTestPoller(client, &fakeEventRepo{})
	p.Tick(context.Background())
	if len(client.requests()) != 0 {
		t.Fatalf("unexpected requests %v", client.requests())
	}
}

func TestNewPollerService_DefaultTimeout(t *testing.T) {
	p := NewPollerService(store.New(), newFakeWashClient(), &fakeEventRepo{}, metrics.Nop{}, logger.Nop(), 0)
	if p.timeout != DefaultPollTimeout {
		t.Fatalf("timeout = %v, want %v", p.timeout, DefaultPollTimeout)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
