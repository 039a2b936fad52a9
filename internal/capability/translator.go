package capability

import (
	"context"
	"fmt"
	"log/slog"
)

// TranslatorManager creates translation sessions for a language pair. Pair
// support is queried on every call so an evicted model is noticed.
type TranslatorManager struct {
	base
	provider Provider
}

func NewTranslatorManager(provider Provider, log *slog.Logger, obs Observer) *TranslatorManager {
	return &TranslatorManager{base: newBase(provider, log, obs), provider: provider}
}

// Session returns a ready translator for source -> target. Every failure wraps
// ErrTranslationUnsupported; a refused pair is a *PairError.
func (m *TranslatorManager) Session(ctx context.Context, source, target string) (Translator, error) {
	if !m.prober.Available(Translation) {
		return nil, fmt.Errorf("%w: %w", ErrTranslationUnsupported, ErrCapabilityAbsent)
	}
	factory := m.provider.Translation()

	pair, err := factory.PairAvailability(ctx, source, target)
	if err != nil {
		return nil, fmt.Errorf("%w: check pair %s -> %s: %w", ErrTranslationUnsupported, source, target, err)
	}
	if pair.state() == Unavailable {
		m.log.Warn("language pair not supported", "source", source, "target", target)
		return nil, &PairError{Source: source, Target: target}
	}

	tmpl := Event{Capability: Translation, Source: source, Target: target}
	tr, err := acquire(ctx, m.base, tmpl, pair.state(),
		func(ctx context.Context, mon Monitor) (Translator, error) {
			return factory.Create(ctx, TranslatorOptions{Source: source, Target: target, Monitor: mon})
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslationUnsupported, err)
	}
	return tr, nil
}
