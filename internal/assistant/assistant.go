package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"text-assist/internal/cache"
	"text-assist/internal/capability"
)

// Unknown is returned by DetectLanguage whenever no reliable language was found.
const Unknown = "Unknown"

// MinConfidence is the lowest detection confidence accepted as reliable.
const MinConfidence = 0.4

// English is the only language SummarizeText condenses.
const English = "en"

// Options tune an Assistant. Zero values are valid.
type Options struct {
	Observer   capability.Observer
	Cache      cache.Cache
	CacheTTL   time.Duration
	Summarizer capability.SummarizerOptions
}

// Assistant composes the session managers into the three operations the UI
// calls. It holds no per-request state and is safe for concurrent use.
type Assistant struct {
	prober      *capability.Prober
	detectors   *capability.DetectorManager
	translators *capability.TranslatorManager
	summarizers *capability.SummarizerManager
	cache       cache.Cache
	cacheTTL    time.Duration
	log         *slog.Logger
}

func New(provider capability.Provider, log *slog.Logger, opts Options) *Assistant {
	if log == nil {
		log = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoOpCache()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	log = log.With("component", "assistant")
	return &Assistant{
		prober:      capability.NewProber(provider, log),
		detectors:   capability.NewDetectorManager(provider, log, opts.Observer),
		translators: capability.NewTranslatorManager(provider, log, opts.Observer),
		summarizers: capability.NewSummarizerManager(provider, log, opts.Observer, opts.Summarizer),
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		log:         log,
	}
}

// Capabilities reports which capabilities the provider exposes.
func (a *Assistant) Capabilities() map[capability.Name]bool {
	return a.prober.Report()
}

// DetectLanguage returns the language code of text, or Unknown. It never
// fails: every cause is logged and collapsed into Unknown.
func (a *Assistant) DetectLanguage(ctx context.Context, text string) string {
	lang, err := a.detect(ctx, text)
	if err != nil {
		a.log.Warn("language detection failed", "err", err)
		return Unknown
	}
	return lang
}

func (a *Assistant) detect(ctx context.Context, text string) (string, error) {
	det, err := a.detectors.Session(ctx)
	if err != nil {
		return "", err
	}
	defer closeSession(a.log, det)

	results, err := det.Detect(ctx, text)
	if err != nil {
		return "", fmt.Errorf("detect: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: no results", capability.ErrDetectionUnreliable)
	}
	best := results[0]
	if best.Language == "" || best.Language == capability.UndeterminedLanguage || best.Confidence < MinConfidence {
		return "", fmt.Errorf("%w: language %q confidence %.2f", capability.ErrDetectionUnreliable, best.Language, best.Confidence)
	}
	a.log.Debug("language detected", "language", best.Language, "confidence", best.Confidence)
	return best.Language, nil
}

// Translation is the outcome of Translate.
type Translation struct {
	Source string
	Target string
	Text   string
	Cached bool
}

// TranslateText detects the language of text and translates it into target.
// Every failure is returned to the caller.
func (a *Assistant) TranslateText(ctx context.Context, text, target string) (string, error) {
	tr, err := a.Translate(ctx, text, target)
	if err != nil {
		return "", err
	}
	return tr.Text, nil
}

// Translate is TranslateText with the detected source and cache status.
func (a *Assistant) Translate(ctx context.Context, text, target string) (Translation, error) {
	target = NormalizeLanguage(target)
	source := a.DetectLanguage(ctx, text)
	if source == Unknown {
		return Translation{}, capability.ErrSourceLanguageUndetermined
	}
	out := Translation{Source: source, Target: target}
	log := a.log.With("source", source, "target", target, "request", uuid.NewString())

	// The pair is checked before the cache so an evicted or refused pair
	// never serves a stored translation.
	session, err := a.translators.Session(ctx, source, target)
	if err != nil {
		return Translation{}, err
	}
	defer closeSession(log, session)

	key := cache.GenerateCacheKey(source, target, text)
	if cached, ok, err := a.cache.GetTranslation(ctx, key); err != nil {
		log.Warn("translation cache lookup failed", "err", err)
	} else if ok {
		log.Debug("translation cache hit")
		out.Text, out.Cached = cached, true
		return out, nil
	}

	translated, err := session.Translate(ctx, text)
	if err != nil {
		return Translation{}, fmt.Errorf("translate %s -> %s: %w", source, target, err)
	}
	if err := a.cache.SetTranslation(ctx, key, translated, a.cacheTTL); err != nil {
		log.Warn("translation cache store failed", "err", err)
	}
	out.Text = translated
	return out, nil
}

// SummarizeText condenses English text. It is best effort: when the
// capability is missing, the text is not English, or anything fails, the
// input is returned unchanged.
func (a *Assistant) SummarizeText(ctx context.Context, text string) string {
	summary, err := a.summarize(ctx, text)
	if err != nil {
		a.log.Info("summary skipped", "err", err)
		return text
	}
	return summary
}

// Summarized reports whether SummarizeText would have changed text into summary.
func Summarized(text, summary string) bool {
	return summary != text
}

func (a *Assistant) summarize(ctx context.Context, text string) (string, error) {
	if !a.prober.Available(capability.Summarization) {
		return "", capability.ErrCapabilityAbsent
	}
	if lang := a.DetectLanguage(ctx, text); lang != English {
		return "", fmt.Errorf("%w: detected %q", capability.ErrSummarizationUnsupportedLanguage, lang)
	}
	session, err := a.summarizers.Session(ctx)
	if err != nil {
		return "", err
	}
	defer closeSession(a.log, session)

	summary, err := session.Summarize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", errors.New("summarizer returned an empty summary")
	}
	return summary, nil
}

// NormalizeLanguage reduces a language tag to its base ISO 639 code, so
// "PT-br" and "pt" name the same target. Unparseable input is lowercased.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// closeSession releases sessions that hold resources.
func closeSession(log *slog.Logger, s capability.Session) {
	c, ok := s.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("close session failed", "err", err)
	}
}
