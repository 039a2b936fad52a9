package capability

import (
	"context"
	"fmt"
	"log/slog"
)

// DetectorManager creates a fresh language detection session per call.
type DetectorManager struct {
	base
	provider Provider
}

func NewDetectorManager(provider Provider, log *slog.Logger, obs Observer) *DetectorManager {
	return &DetectorManager{base: newBase(provider, log, obs), provider: provider}
}

// Session returns a ready detector. Every failure, including host errors,
// wraps ErrDetectorUnavailable.
func (m *DetectorManager) Session(ctx context.Context) (Detector, error) {
	if !m.prober.Available(Detection) {
		return nil, fmt.Errorf("%w: %w", ErrDetectorUnavailable, ErrCapabilityAbsent)
	}
	factory := m.provider.Detection()

	state, err := factory.Availability(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: query availability: %w", ErrDetectorUnavailable, err)
	}
	det, err := acquire(ctx, m.base, Event{Capability: Detection}, state,
		func(ctx context.Context, mon Monitor) (Detector, error) {
			return factory.Create(ctx, DetectorOptions{Monitor: mon})
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetectorUnavailable, err)
	}
	return det, nil
}
