package provider

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"text-assist/internal/capability"
	"text-assist/internal/llm"
)

// ModelHost installs the model behind a chat client. Hosted APIs have none.
type ModelHost interface {
	Installed(ctx context.Context) (bool, error)
	Install(ctx context.Context, progress func(loaded, total int64)) error
}

// LLM exposes all three capabilities on top of a chat model client. With a
// ModelHost the model may need a download before first use.
type LLM struct {
	client    llm.Client
	host      ModelHost
	languages languageSet
	log       *slog.Logger

	installs singleflight.Group
	mu       sync.Mutex
	watchers []capability.Monitor
}

// NewLLM builds a provider. host may be nil when the model is always ready.
func NewLLM(client llm.Client, host ModelHost, languages []string, log *slog.Logger) (*LLM, error) {
	if client == nil {
		return nil, errNilClient("llm")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LLM{client: client, host: host, languages: newLanguageSet(languages), log: log}, nil
}

var _ capability.Provider = (*LLM)(nil)

func (p *LLM) Detection() capability.DetectorFactory     { return llmDetectors{p} }
func (p *LLM) Translation() capability.TranslatorFactory { return llmTranslators{p} }
func (p *LLM) Summarization() capability.SummarizerFactory {
	return llmSummarizers{p}
}

func (p *LLM) availability(ctx context.Context) (capability.State, error) {
	if p.host == nil {
		return capability.Readily, nil
	}
	ok, err := p.host.Installed(ctx)
	if err != nil {
		return capability.Unavailable, err
	}
	if ok {
		return capability.Readily, nil
	}
	return capability.AfterDownload, nil
}

// prepare returns the ready signal for a new session. When the host lacks
// the model, sessions created meanwhile share one background install and
// all of their monitors see its progress.
func (p *LLM) prepare(ctx context.Context, mon capability.Monitor) (*readiness, error) {
	if p.host == nil {
		return readyNow(), nil
	}
	ok, err := p.host.Installed(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return readyNow(), nil
	}

	p.watch(mon)
	// The install outlives the request that started it.
	installCtx := context.WithoutCancel(ctx)
	ch := p.installs.DoChan("install", func() (any, error) {
		defer p.unwatchAll()
		err := p.host.Install(installCtx, p.broadcast)
		if err != nil {
			p.log.Error("model install failed", "err", err)
		}
		return nil, err
	})

	r := &readiness{done: make(chan struct{})}
	go func() {
		res := <-ch
		r.err = res.Err
		close(r.done)
	}()
	return r, nil
}

func (p *LLM) watch(mon capability.Monitor) {
	if mon == nil {
		return
	}
	p.mu.Lock()
	p.watchers = append(p.watchers, mon)
	p.mu.Unlock()
}

func (p *LLM) unwatchAll() {
	p.mu.Lock()
	p.watchers = nil
	p.mu.Unlock()
}

func (p *LLM) broadcast(loaded, total int64) {
	p.mu.Lock()
	watchers := append([]capability.Monitor(nil), p.watchers...)
	p.mu.Unlock()
	for _, mon := range watchers {
		progressTo(mon)(loaded, total)
	}
}

type llmDetectors struct{ p *LLM }

func (f llmDetectors) Availability(ctx context.Context) (capability.State, error) {
	return f.p.availability(ctx)
}

func (f llmDetectors) Create(ctx context.Context, opts capability.DetectorOptions) (capability.Detector, error) {
	r, err := f.p.prepare(ctx, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return &llmDetector{readiness: r, client: f.p.client}, nil
}

type llmDetector struct {
	*readiness
	client llm.Client
}

func (d *llmDetector) Detect(ctx context.Context, text string) ([]capability.DetectionResult, error) {
	lang, conf, err := d.client.DetectLanguage(ctx, text)
	if err != nil {
		return nil, err
	}
	return []capability.DetectionResult{{Language: lang, Confidence: conf}}, nil
}

type llmTranslators struct{ p *LLM }

func (f llmTranslators) Availability(ctx context.Context) (capability.State, error) {
	return f.p.availability(ctx)
}

func (f llmTranslators) PairAvailability(ctx context.Context, source, target string) (capability.PairAvailability, error) {
	if !f.p.languages.pair(source, target) {
		return capability.PairNo, nil
	}
	state, err := f.p.availability(ctx)
	if err != nil {
		return capability.PairNo, err
	}
	switch state {
	case capability.Readily:
		return capability.PairAvailable, nil
	case capability.AfterDownload:
		return capability.PairAfterDownload, nil
	default:
		return capability.PairNo, nil
	}
}

func (f llmTranslators) Create(ctx context.Context, opts capability.TranslatorOptions) (capability.Translator, error) {
	r, err := f.p.prepare(ctx, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return &llmTranslator{readiness: r, client: f.p.client, source: opts.Source, target: opts.Target}, nil
}

type llmTranslator struct {
	*readiness
	client         llm.Client
	source, target string
}

func (t *llmTranslator) Translate(ctx context.Context, text string) (string, error) {
	return t.client.Translate(ctx, text, t.source, t.target)
}

type llmSummarizers struct{ p *LLM }

func (f llmSummarizers) Availability(ctx context.Context) (capability.State, error) {
	return f.p.availability(ctx)
}

func (f llmSummarizers) Create(ctx context.Context, opts capability.SummarizerOptions) (capability.Summarizer, error) {
	r, err := f.p.prepare(ctx, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return &llmSummarizer{readiness: r, client: f.p.client, instructions: summaryInstructions(opts)}, nil
}

type llmSummarizer struct {
	*readiness
	client       llm.Client
	instructions string
}

func (s *llmSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.client.Summarize(ctx, text, s.instructions)
}
