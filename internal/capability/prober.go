package capability

import "log/slog"

// Prober answers whether a capability exists on the provider.
type Prober struct {
	provider Provider
	log      *slog.Logger
}

func NewProber(provider Provider, log *slog.Logger) *Prober {
	return &Prober{provider: provider, log: log}
}

// Available reports whether the named capability is exposed. Absence is an
// expected outcome, so it is logged but never returned as an error.
func (p *Prober) Available(name Name) bool {
	ok := p.exposes(name)
	if ok {
		p.log.Debug("capability available", "capability", name)
	} else {
		p.log.Info("capability not available", "capability", name)
	}
	return ok
}

// Report probes every known capability.
func (p *Prober) Report() map[Name]bool {
	return map[Name]bool{
		Detection:     p.Available(Detection),
		Translation:   p.Available(Translation),
		Summarization: p.Available(Summarization),
	}
}

func (p *Prober) exposes(name Name) bool {
	if p == nil || p.provider == nil {
		return false
	}
	switch name {
	case Detection:
		return p.provider.Detection() != nil
	case Translation:
		return p.provider.Translation() != nil
	case Summarization:
		return p.provider.Summarization() != nil
	default:
		return false
	}
}
