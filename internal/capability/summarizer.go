package capability

import (
	"context"
	"fmt"
	"log/slog"
)

// SummarizerManager creates summarization sessions. It does not restrict the
// input language; callers enforce that.
type SummarizerManager struct {
	base
	provider Provider
	opts     SummarizerOptions
}

func NewSummarizerManager(provider Provider, log *slog.Logger, obs Observer, opts SummarizerOptions) *SummarizerManager {
	if opts.Type == "" {
		opts.Type = SummaryTypeKeyPoints
	}
	if opts.Format == "" {
		opts.Format = SummaryFormatPlain
	}
	if opts.Length == "" {
		opts.Length = SummaryLengthMedium
	}
	opts.Monitor = nil
	return &SummarizerManager{base: newBase(provider, log, obs), provider: provider, opts: opts}
}

// Session returns a ready summarizer. Every failure wraps ErrSummarizerUnavailable.
func (m *SummarizerManager) Session(ctx context.Context) (Summarizer, error) {
	if !m.prober.Available(Summarization) {
		return nil, fmt.Errorf("%w: %w", ErrSummarizerUnavailable, ErrCapabilityAbsent)
	}
	factory := m.provider.Summarization()

	state, err := factory.Availability(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: query availability: %w", ErrSummarizerUnavailable, err)
	}
	sum, err := acquire(ctx, m.base, Event{Capability: Summarization}, state,
		func(ctx context.Context, mon Monitor) (Summarizer, error) {
			opts := m.opts
			opts.Monitor = mon
			return factory.Create(ctx, opts)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummarizerUnavailable, err)
	}
	return sum, nil
}
