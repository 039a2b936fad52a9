package provider

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"text-assist/internal/capability"
	"text-assist/internal/chunker"
)

// StubOptions switch individual capabilities off so callers can exercise the
// absent paths.
type StubOptions struct {
	NoDetection     bool
	NoTranslation   bool
	NoSummarization bool
	// Languages whose translation models must be downloaded before first use.
	DownloadLanguages []string
	// ModelSize is the byte total reported by simulated downloads.
	ModelSize int64
}

// Stub is a deterministic offline provider. Detection uses stopword counts,
// translation a small phrase table, summarization sentence extraction.
type Stub struct {
	opts      StubOptions
	languages languageSet
	download  languageSet

	mu         sync.Mutex
	downloaded map[string]bool
}

func NewStub(languages []string, opts StubOptions) *Stub {
	if opts.ModelSize <= 0 {
		opts.ModelSize = 4 << 20
	}
	return &Stub{
		opts:       opts,
		languages:  newLanguageSet(languages),
		download:   newLanguageSet(opts.DownloadLanguages),
		downloaded: make(map[string]bool),
	}
}

var _ capability.Provider = (*Stub)(nil)

func (s *Stub) Detection() capability.DetectorFactory {
	if s.opts.NoDetection {
		return nil
	}
	return stubDetectors{}
}

func (s *Stub) Translation() capability.TranslatorFactory {
	if s.opts.NoTranslation {
		return nil
	}
	return stubTranslators{s}
}

func (s *Stub) Summarization() capability.SummarizerFactory {
	if s.opts.NoSummarization {
		return nil
	}
	return stubSummarizers{s}
}

const summarizerModel = "summarizer"

func (s *Stub) isDownloaded(model string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloaded[model]
}

// fetch simulates a model download in four progress ticks.
func (s *Stub) fetch(model string, mon capability.Monitor) {
	const ticks = 4
	for i := int64(1); i <= ticks; i++ {
		if mon != nil {
			mon(capability.Progress{Loaded: s.opts.ModelSize * i / ticks, Total: s.opts.ModelSize})
		}
	}
	s.mu.Lock()
	s.downloaded[model] = true
	s.mu.Unlock()
}

type stubDetectors struct{}

func (stubDetectors) Availability(context.Context) (capability.State, error) {
	return capability.Readily, nil
}

func (stubDetectors) Create(context.Context, capability.DetectorOptions) (capability.Detector, error) {
	return &stubDetector{readiness: readyNow()}, nil
}

type stubDetector struct {
	*readiness
}

func (d *stubDetector) Detect(ctx context.Context, text string) ([]capability.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return detectByStopwords(text), nil
}

var stopwords = map[string][]string{
	"en": {"the", "and", "is", "are", "of", "to", "in", "it", "that", "this", "with", "for", "was", "be", "have", "you", "not", "they", "we", "from", "by", "an", "or", "at", "which", "hello", "world", "everyone"},
	"fr": {"le", "la", "les", "des", "du", "et", "est", "une", "dans", "pour", "pas", "sur", "avec", "ce", "il", "elle", "nous", "vous", "je", "tout", "tous", "bonjour", "monde", "mais", "très", "merci", "au", "aux", "de"},
	"es": {"el", "la", "los", "las", "del", "y", "es", "una", "por", "con", "para", "está", "hola", "muy", "pero", "como", "mundo", "gracias", "todo", "yo", "lo", "este", "esta", "de"},
	"pt": {"o", "os", "um", "uma", "não", "é", "do", "da", "dos", "das", "em", "com", "para", "olá", "obrigado", "você", "muito", "mas", "isso", "de"},
	"tr": {"ve", "bir", "bu", "için", "ile", "çok", "merhaba", "dünya", "teşekkürler", "ben", "sen", "değil", "var", "yok", "gibi", "daha"},
}

var stopwordIndex = func() map[string][]string {
	idx := make(map[string][]string)
	for lang, words := range stopwords {
		for _, w := range words {
			idx[w] = append(idx[w], lang)
		}
	}
	return idx
}()

// detectByStopwords ranks languages by their share of matched stopwords.
// Cyrillic words count towards Russian.
func detectByStopwords(text string) []capability.DetectionResult {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	hits := make(map[string]int)
	total := 0
	for _, w := range words {
		if isCyrillic(w) {
			hits["ru"]++
			total++
			continue
		}
		for _, lang := range stopwordIndex[w] {
			hits[lang]++
			total++
		}
	}
	if total == 0 {
		return []capability.DetectionResult{{Language: capability.UndeterminedLanguage, Confidence: 1}}
	}
	out := make([]capability.DetectionResult, 0, len(hits))
	for lang, n := range hits {
		conf := float64(n) / float64(total)
		out = append(out, capability.DetectionResult{Language: lang, Confidence: math.Round(conf*1000) / 1000})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func isCyrillic(word string) bool {
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

type stubTranslators struct{ s *Stub }

func (f stubTranslators) Availability(context.Context) (capability.State, error) {
	return capability.Readily, nil
}

func (f stubTranslators) PairAvailability(_ context.Context, source, target string) (capability.PairAvailability, error) {
	if !f.s.languages.pair(source, target) {
		return capability.PairNo, nil
	}
	model := pairModel(source, target)
	if f.needsDownload(source, target) && !f.s.isDownloaded(model) {
		return capability.PairAfterDownload, nil
	}
	return capability.PairAvailable, nil
}

func (f stubTranslators) needsDownload(source, target string) bool {
	return f.s.download[strings.ToLower(source)] || f.s.download[strings.ToLower(target)]
}

func (f stubTranslators) Create(ctx context.Context, opts capability.TranslatorOptions) (capability.Translator, error) {
	if !f.s.languages.pair(opts.Source, opts.Target) {
		return nil, fmt.Errorf("stub translator: unsupported pair %s -> %s", opts.Source, opts.Target)
	}
	model := pairModel(opts.Source, opts.Target)
	if f.needsDownload(opts.Source, opts.Target) && !f.s.isDownloaded(model) {
		f.s.fetch(model, opts.Monitor)
	}
	return &stubTranslator{readiness: readyNow(), source: strings.ToLower(opts.Source), target: strings.ToLower(opts.Target)}, nil
}

func pairModel(source, target string) string {
	return strings.ToLower(source) + "-" + strings.ToLower(target)
}

type stubTranslator struct {
	*readiness
	source, target string
}

// phrases maps "source-target" to known translations keyed by lowercased text.
var phrases = map[string]map[string]string{
	"fr-en": {"bonjour tout le monde": "Hello everyone", "merci": "Thank you"},
	"fr-es": {"bonjour tout le monde": "Hola a todos", "merci": "Gracias"},
	"en-es": {"hello world": "Hola mundo", "thank you": "Gracias"},
	"en-fr": {"hello world": "Bonjour le monde", "thank you": "Merci"},
	"en-pt": {"hello world": "Olá mundo", "thank you": "Obrigado"},
	"es-en": {"hola mundo": "Hello world", "gracias": "Thank you"},
}

func (t *stubTranslator) Translate(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := strings.ToLower(strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ".!?")))
	if out, ok := phrases[t.source+"-"+t.target][key]; ok {
		return out, nil
	}
	return fmt.Sprintf("[%s] %s", t.target, text), nil
}

type stubSummarizers struct{ s *Stub }

func (f stubSummarizers) Availability(context.Context) (capability.State, error) {
	if f.s.isDownloaded(summarizerModel) {
		return capability.Readily, nil
	}
	return capability.AfterDownload, nil
}

func (f stubSummarizers) Create(ctx context.Context, opts capability.SummarizerOptions) (capability.Summarizer, error) {
	if !f.s.isDownloaded(summarizerModel) {
		f.s.fetch(summarizerModel, opts.Monitor)
	}
	return &stubSummarizer{readiness: readyNow(), opts: opts}, nil
}

type stubSummarizer struct {
	*readiness
	opts capability.SummarizerOptions
}

// Summarize keeps the leading sentences of the text. The result is always
// shorter than the input when the input has more than one word.
func (s *stubSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sentences := chunker.SplitSentences(text)
	keep := 3
	switch s.opts.Length {
	case capability.SummaryLengthShort:
		keep = 1
	case capability.SummaryLengthLong:
		keep = 5
	}
	if s.opts.Type == capability.SummaryTypeTLDR {
		keep = 1
	}
	if keep > len(sentences)-1 {
		keep = len(sentences) - 1
	}

	var out string
	if keep < 1 {
		out = halfWords(text)
	} else if s.opts.Type == capability.SummaryTypeKeyPoints {
		out = "- " + strings.Join(sentences[:keep], "\n- ")
	} else {
		out = strings.Join(sentences[:keep], " ")
	}
	if len(out) >= len(text) {
		out = halfWords(text)
	}
	return out, nil
}

func halfWords(text string) string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:len(words)/2], " ") + "..."
}
