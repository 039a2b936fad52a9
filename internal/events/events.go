package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"text-assist/internal/retry"
)

// Kind enumerates telemetry event categories.
type Kind string

const (
	KindDownloadProgress Kind = "download_progress"
	KindSessionReady     Kind = "session_ready"
	KindSessionFailed    Kind = "session_failed"
)

// Event is a capability lifecycle notification shared between services.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	Capability string    `json:"capability"`
	State      string    `json:"state,omitempty"`
	Source     string    `json:"source,omitempty"`
	Target     string    `json:"target,omitempty"`
	Loaded     int64     `json:"loaded,omitempty"`
	Total      int64     `json:"total,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

type Handler func(context.Context, Event) error

// Bus publishes telemetry and lets monitors consume it. An empty kind passed
// to Subscribe receives every kind.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, kind Kind, handler Handler) error
}

// PublishWithRetry attempts to publish with retries and exponential backoff.
func PublishWithRetry(ctx context.Context, b Bus, ev Event, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := b.Publish(ctx, ev); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.ExponentialBackoff(attempt, base)):
		}
	}
	return nil
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Subscribe(ctx context.Context, _ Kind, _ Handler) error {
	<-ctx.Done()
	return nil
}
