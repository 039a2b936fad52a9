package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"text-assist/internal/app"
	"text-assist/internal/events"
	"text-assist/internal/httputil"
)

func main() {
	deps, err := app.BuildMonitor()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("progress monitor starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	t := newTracker(deps.Log, time.Now)

	// Run event subscriber
	g.Go(func() error {
		return watch(ctx, deps.Events, t)
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.HealthPort, "monitor")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("monitor stopped", "err", err)
	}
}

// watch feeds every capability event kind to t until ctx ends.
func watch(ctx context.Context, bus events.Bus, t *tracker) error {
	return bus.Subscribe(ctx, "", t.handle)
}

// tracker follows model downloads across events and logs their progress
// and outcome.
type tracker struct {
	log *slog.Logger
	now func() time.Time

	mu      sync.Mutex
	started map[string]time.Time
}

func newTracker(log *slog.Logger, now func() time.Time) *tracker {
	return &tracker{log: log, now: now, started: make(map[string]time.Time)}
}

// downloadKey identifies one model download: the capability plus its pair.
func downloadKey(ev events.Event) string {
	return fmt.Sprintf("%s/%s/%s", ev.Capability, ev.Source, ev.Target)
}

func (t *tracker) handle(_ context.Context, ev events.Event) error {
	key := downloadKey(ev)
	log := t.log.With("capability", ev.Capability, "event_id", ev.ID)
	if ev.Source != "" || ev.Target != "" {
		log = log.With("source", ev.Source, "target", ev.Target)
	}

	switch ev.Kind {
	case events.KindDownloadProgress:
		t.mu.Lock()
		if _, ok := t.started[key]; !ok {
			t.started[key] = t.now()
		}
		t.mu.Unlock()
		log.Info("model download", "loaded", ev.Loaded, "total", ev.Total, "percent", percent(ev.Loaded, ev.Total))
	case events.KindSessionReady:
		if d, ok := t.finish(key); ok {
			log.Info("model downloaded", "duration_ms", d.Milliseconds(), "in_flight", t.active())
		} else {
			log.Debug("session ready", "state", ev.State)
		}
	case events.KindSessionFailed:
		d, _ := t.finish(key)
		log.Warn("session failed", "state", ev.State, "err", ev.Error, "duration_ms", d.Milliseconds(), "in_flight", t.active())
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

// finish forgets a download and returns how long it ran.
func (t *tracker) finish(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.started[key]
	if !ok {
		return 0, false
	}
	delete(t.started, key)
	return t.now().Sub(start), true
}

// active reports how many downloads are in flight.
func (t *tracker) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.started)
}

func percent(loaded, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(loaded) * 100 / float64(total)
	if p > 100 {
		p = 100
	}
	return float64(int(p*10)) / 10
}
