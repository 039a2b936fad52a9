package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"text-assist/internal/capability"
)

const (
	publishAttempts = 2
	publishBackoff  = 50 * time.Millisecond
)

// Observer forwards capability lifecycle events to a Bus. Publish failures are
// logged; telemetry never fails a session.
type Observer struct {
	bus Bus
	log *slog.Logger
}

func NewObserver(bus Bus, log *slog.Logger) *Observer {
	return &Observer{bus: bus, log: log}
}

var _ capability.Observer = (*Observer)(nil)

func (o *Observer) Observe(ctx context.Context, ev capability.Event) {
	out := FromCapability(ev)
	if err := PublishWithRetry(ctx, o.bus, out, publishAttempts, publishBackoff); err != nil {
		o.log.Warn("failed to publish capability event", "kind", out.Kind, "capability", out.Capability, "err", err)
	}
}

// FromCapability converts a capability event into its wire form.
func FromCapability(ev capability.Event) Event {
	out := Event{
		ID:         uuid.New(),
		Kind:       Kind(ev.Kind),
		Capability: string(ev.Capability),
		State:      string(ev.State),
		Source:     ev.Source,
		Target:     ev.Target,
		Loaded:     ev.Progress.Loaded,
		Total:      ev.Progress.Total,
		At:         time.Now().UTC(),
	}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
	}
	return out
}
