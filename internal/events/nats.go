package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const subjectPrefix = "capability."

// NewNATS constructs a thin NATS-based bus.
func NewNATS(log *slog.Logger, nc *nats.Conn) Bus {
	return &natsBus{log: log, nc: nc}
}

type natsBus struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (b *natsBus) Publish(_ context.Context, ev Event) error {
	if ev.Kind == "" {
		return errors.New("event kind required")
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.nc.Publish(subject(ev.Kind), body)
}

func (b *natsBus) Subscribe(ctx context.Context, kind Kind, handler Handler) error {
	group := "monitors"
	if kind != "" {
		group += "-" + string(kind)
	}
	sub, err := b.nc.QueueSubscribe(subject(kind), group, func(msg *nats.Msg) {
		b.handleMessage(ctx, msg, handler)
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

func (b *natsBus) handleMessage(ctx context.Context, msg *nats.Msg, handler Handler) {
	var ev Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		b.log.Error("failed to decode event", "subject", msg.Subject, "err", err)
		return
	}
	if err := handler(ctx, ev); err != nil {
		b.log.Warn("event handler failed", "id", ev.ID, "kind", ev.Kind, "err", err)
	}
}

func subject(kind Kind) string {
	if kind == "" {
		return subjectPrefix + ">"
	}
	return subjectPrefix + string(kind)
}
