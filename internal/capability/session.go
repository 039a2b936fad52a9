package capability

import (
	"context"
	"fmt"
	"log/slog"
)

// EventKind classifies lifecycle notifications emitted while acquiring sessions.
type EventKind string

const (
	EventDownloadProgress EventKind = "download_progress"
	EventSessionReady     EventKind = "session_ready"
	EventSessionFailed    EventKind = "session_failed"
)

// Event describes a session lifecycle step. Source and Target are only set for
// translation sessions.
type Event struct {
	Kind       EventKind
	Capability Name
	State      State
	Source     string
	Target     string
	Progress   Progress
	Err        error
}

// Observer receives lifecycle events. It must not block.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Event) {}

// base holds what every manager shares.
type base struct {
	prober   *Prober
	log      *slog.Logger
	observer Observer
}

func newBase(provider Provider, log *slog.Logger, obs Observer) base {
	if log == nil {
		log = slog.Default()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return base{prober: NewProber(provider, log), log: log, observer: obs}
}

// monitor builds the progress observer handed to a factory when a download is
// pending. Every tick is logged and forwarded.
func (b base) monitor(ctx context.Context, tmpl Event) Monitor {
	return func(p Progress) {
		b.log.Info("model download progress",
			"capability", tmpl.Capability,
			"loaded", p.Loaded,
			"total", p.Total,
		)
		ev := tmpl
		ev.Kind = EventDownloadProgress
		ev.Progress = p
		b.observer.Observe(ctx, ev)
	}
}

// acquire runs the three-state protocol: unavailable fails, readily creates
// directly, anything else creates with a progress monitor and waits for the
// session to become ready.
func acquire[S Session](ctx context.Context, b base, tmpl Event, state State, create func(context.Context, Monitor) (S, error)) (S, error) {
	var zero S
	log := b.log.With("capability", tmpl.Capability, "state", state)
	tmpl.State = state

	sess, err := func() (S, error) {
		switch state {
		case Unavailable:
			log.Warn("capability is not usable")
			return zero, ErrCapabilityAbsent
		case Readily:
			log.Debug("capability can be used immediately")
			s, err := create(ctx, nil)
			if err != nil {
				return zero, fmt.Errorf("create session: %w", err)
			}
			if err := s.Ready(ctx); err != nil {
				return zero, fmt.Errorf("session not ready: %w", err)
			}
			return s, nil
		default:
			log.Info("capability requires a model download")
			s, err := create(ctx, b.monitor(ctx, tmpl))
			if err != nil {
				return zero, fmt.Errorf("%w: %w", ErrModelDownloadFailed, err)
			}
			if err := s.Ready(ctx); err != nil {
				return zero, fmt.Errorf("%w: %w", ErrModelDownloadFailed, err)
			}
			return s, nil
		}
	}()

	ev := tmpl
	if err != nil {
		ev.Kind = EventSessionFailed
		ev.Err = err
		b.observer.Observe(ctx, ev)
		return zero, err
	}
	ev.Kind = EventSessionReady
	b.observer.Observe(ctx, ev)
	return sess, nil
}
