package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"text-assist/internal/cache"
	"text-assist/internal/capability"
	"text-assist/internal/provider"
)

const (
	englishText = "The quick brown fox jumps over the lazy dog and it is very happy. " +
		"The dog is not amused by the fox. They have been friends for years. " +
		"In the evening they sit together at the river and watch the water flowing by the old mill."
	spanishText = "Hola, este es un texto muy corto para el mundo."
)

var supported = []string{"en", "pt", "es", "ru", "tr", "fr"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStubAssistant(opts provider.StubOptions) *Assistant {
	return New(provider.NewStub(supported, opts), discardLogger(), Options{})
}

// mockProvider wires a MockProvider whose detector returns results for any text.
func mockProvider(results []capability.DetectionResult, detectErr error) (*capability.MockProvider, *capability.MockTranslatorFactory, *capability.MockSummarizerFactory) {
	det := new(capability.MockDetector)
	det.On("Ready", mock.Anything).Return(nil)
	det.On("Detect", mock.Anything, mock.Anything).Return(results, detectErr)

	detectors := new(capability.MockDetectorFactory)
	detectors.On("Availability", mock.Anything).Return(capability.Readily, nil)
	detectors.On("Create", mock.Anything, mock.Anything).Return(det, nil)

	translators := new(capability.MockTranslatorFactory)
	summarizers := new(capability.MockSummarizerFactory)

	p := new(capability.MockProvider)
	p.On("Detection").Return(detectors)
	p.On("Translation").Return(translators)
	p.On("Summarization").Return(summarizers)
	return p, translators, summarizers
}

func TestDetectLanguageScenarios(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{})
	ctx := context.Background()

	assert.Equal(t, "fr", a.DetectLanguage(ctx, "Bonjour tout le monde"))
	assert.Equal(t, Unknown, a.DetectLanguage(ctx, ""))
	assert.Equal(t, "en", a.DetectLanguage(ctx, englishText))
	assert.Equal(t, "es", a.DetectLanguage(ctx, spanishText))
}

func TestDetectLanguageIdempotent(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{})
	ctx := context.Background()

	for _, text := range []string{"Bonjour tout le monde", englishText, "", "zzz"} {
		assert.Equal(t, a.DetectLanguage(ctx, text), a.DetectLanguage(ctx, text), text)
	}
}

func TestDetectLanguageReturnsUnknown(t *testing.T) {
	tests := []struct {
		name      string
		results   []capability.DetectionResult
		detectErr error
	}{
		{"low confidence", []capability.DetectionResult{{Language: "fr", Confidence: 0.39}}, nil},
		{"undetermined", []capability.DetectionResult{{Language: "und", Confidence: 0.99}}, nil},
		{"empty language", []capability.DetectionResult{{Language: "", Confidence: 0.99}}, nil},
		{"no results", []capability.DetectionResult{}, nil},
		{"host error", nil, errors.New("detector crashed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := mockProvider(tt.results, tt.detectErr)
			a := New(p, discardLogger(), Options{})
			assert.Equal(t, Unknown, a.DetectLanguage(context.Background(), "some text"))
		})
	}
}

func TestDetectLanguageThreshold(t *testing.T) {
	p, _, _ := mockProvider([]capability.DetectionResult{{Language: "de", Confidence: MinConfidence}}, nil)
	a := New(p, discardLogger(), Options{})
	assert.Equal(t, "de", a.DetectLanguage(context.Background(), "Guten Tag"))
}

func TestDetectLanguageCapabilityAbsent(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{NoDetection: true})
	for _, text := range []string{"", "Bonjour tout le monde", englishText} {
		assert.Equal(t, Unknown, a.DetectLanguage(context.Background(), text))
	}

	assert.Equal(t, Unknown, New(nil, nil, Options{}).DetectLanguage(context.Background(), "hello"))
}

func TestDetectLanguageDownloadFailure(t *testing.T) {
	det := new(capability.MockDetector)
	det.On("Ready", mock.Anything).Return(errors.New("disk full"))
	detectors := new(capability.MockDetectorFactory)
	detectors.On("Availability", mock.Anything).Return(capability.AfterDownload, nil)
	detectors.On("Create", mock.Anything, mock.Anything).Return(det, nil)
	p := new(capability.MockProvider)
	p.On("Detection").Return(detectors)

	a := New(p, discardLogger(), Options{})
	assert.Equal(t, Unknown, a.DetectLanguage(context.Background(), "Bonjour"))
	det.AssertNotCalled(t, "Detect", mock.Anything, mock.Anything)
}

func TestTranslateTextScenarios(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{})
	ctx := context.Background()

	got, err := a.TranslateText(ctx, "Bonjour tout le monde", "es")
	require.NoError(t, err)
	assert.Equal(t, "Hola a todos", got)

	_, err = a.TranslateText(ctx, "", "es")
	assert.ErrorIs(t, err, capability.ErrSourceLanguageUndetermined)

	_, err = a.TranslateText(ctx, "Bonjour tout le monde", "xx")
	assert.ErrorIs(t, err, capability.ErrTranslationUnsupportedPair)
	var pairErr *capability.PairError
	require.ErrorAs(t, err, &pairErr)
	assert.Equal(t, "fr", pairErr.Source)
	assert.Equal(t, "xx", pairErr.Target)
}

func TestTranslateTextNeverTranslatesUnknownSource(t *testing.T) {
	p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "und", Confidence: 1}}, nil)
	a := New(p, discardLogger(), Options{})

	_, err := a.TranslateText(context.Background(), "???", "en")
	assert.ErrorIs(t, err, capability.ErrSourceLanguageUndetermined)
	translators.AssertNotCalled(t, "PairAvailability", mock.Anything, mock.Anything, mock.Anything)
	translators.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTranslateTextCapabilityAbsent(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{NoTranslation: true})
	_, err := a.TranslateText(context.Background(), "Bonjour tout le monde", "en")
	assert.ErrorIs(t, err, capability.ErrTranslationUnsupported)
	assert.ErrorIs(t, err, capability.ErrCapabilityAbsent)
}

func TestTranslateSameLanguageAsksHost(t *testing.T) {
	p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "pt", Confidence: 0.9}}, nil)
	translators.On("PairAvailability", mock.Anything, "pt", "pt").Return(capability.PairNo, nil).Once()
	a := New(p, discardLogger(), Options{})

	_, err := a.Translate(context.Background(), "Olá mundo", "PT-br")
	assert.ErrorIs(t, err, capability.ErrTranslationUnsupportedPair)
	translators.AssertExpectations(t)
	translators.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTranslateDownloadsPairModel(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{DownloadLanguages: []string{"ru"}})
	got, err := a.TranslateText(context.Background(), "Hello world", "ru")
	require.NoError(t, err)
	assert.Equal(t, "[ru] Hello world", got)
}

func TestTranslatePropagatesTranslatorError(t *testing.T) {
	p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "fr", Confidence: 0.9}}, nil)
	session := new(capability.MockTranslator)
	session.On("Ready", mock.Anything).Return(nil)
	session.On("Translate", mock.Anything, "Bonjour").Return("", errors.New("model crashed"))
	translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairAvailable, nil)
	translators.On("Create", mock.Anything, mock.Anything).Return(session, nil)

	a := New(p, discardLogger(), Options{})
	_, err := a.TranslateText(context.Background(), "Bonjour", "en")
	assert.ErrorContains(t, err, "model crashed")
}

type closingTranslator struct {
	*capability.MockTranslator
	closed int
}

func (c *closingTranslator) Close() error {
	c.closed++
	return nil
}

func TestTranslateCache(t *testing.T) {
	ctx := context.Background()
	key := cache.GenerateCacheKey("fr", "en", "Bonjour")

	t.Run("hit checks pair but skips translate", func(t *testing.T) {
		p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "fr", Confidence: 0.9}}, nil)
		session := new(capability.MockTranslator)
		session.On("Ready", mock.Anything).Return(nil)
		translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairAvailable, nil).Once()
		translators.On("Create", mock.Anything, mock.Anything).Return(session, nil).Once()

		c := new(cache.MockCache)
		c.On("GetTranslation", mock.Anything, key).Return("Hello", true, nil).Once()

		a := New(p, discardLogger(), Options{Cache: c})
		tr, err := a.Translate(ctx, "Bonjour", "en")
		require.NoError(t, err)
		assert.Equal(t, Translation{Source: "fr", Target: "en", Text: "Hello", Cached: true}, tr)
		translators.AssertExpectations(t)
		session.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)
		c.AssertExpectations(t)
	})

	t.Run("refused pair is not served from cache", func(t *testing.T) {
		p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "fr", Confidence: 0.9}}, nil)
		session := new(capability.MockTranslator)
		session.On("Ready", mock.Anything).Return(nil)
		session.On("Translate", mock.Anything, "Bonjour").Return("Hello", nil).Once()
		translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairAvailable, nil).Once()
		translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairNo, nil).Once()
		translators.On("Create", mock.Anything, mock.Anything).Return(session, nil).Once()

		c := new(cache.MockCache)
		c.On("GetTranslation", mock.Anything, key).Return("", false, nil).Once()
		c.On("SetTranslation", mock.Anything, key, "Hello", mock.Anything).Return(nil).Once()

		a := New(p, discardLogger(), Options{Cache: c})
		got, err := a.TranslateText(ctx, "Bonjour", "en")
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)

		_, err = a.TranslateText(ctx, "Bonjour", "en")
		assert.ErrorIs(t, err, capability.ErrTranslationUnsupportedPair)
		translators.AssertNumberOfCalls(t, "PairAvailability", 2)
		c.AssertNumberOfCalls(t, "GetTranslation", 1)
		c.AssertExpectations(t)
	})

	t.Run("miss stores result and closes session", func(t *testing.T) {
		p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "fr", Confidence: 0.9}}, nil)
		session := &closingTranslator{MockTranslator: new(capability.MockTranslator)}
		session.On("Ready", mock.Anything).Return(nil)
		session.On("Translate", mock.Anything, "Bonjour").Return("Hello", nil).Once()
		translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairAvailable, nil)
		translators.On("Create", mock.Anything, mock.Anything).Return(session, nil)

		c := new(cache.MockCache)
		c.On("GetTranslation", mock.Anything, key).Return("", false, nil).Once()
		c.On("SetTranslation", mock.Anything, key, "Hello", 10*time.Minute).Return(nil).Once()

		a := New(p, discardLogger(), Options{Cache: c, CacheTTL: 10 * time.Minute})
		tr, err := a.Translate(ctx, "Bonjour", "en")
		require.NoError(t, err)
		assert.False(t, tr.Cached)
		assert.Equal(t, "Hello", tr.Text)
		assert.Equal(t, 1, session.closed)
		c.AssertExpectations(t)
	})

	t.Run("cache errors are ignored", func(t *testing.T) {
		p, translators, _ := mockProvider([]capability.DetectionResult{{Language: "fr", Confidence: 0.9}}, nil)
		session := new(capability.MockTranslator)
		session.On("Ready", mock.Anything).Return(nil)
		session.On("Translate", mock.Anything, "Bonjour").Return("Hello", nil).Once()
		translators.On("PairAvailability", mock.Anything, "fr", "en").Return(capability.PairAvailable, nil)
		translators.On("Create", mock.Anything, mock.Anything).Return(session, nil)

		c := new(cache.MockCache)
		c.On("GetTranslation", mock.Anything, key).Return("", false, errors.New("redis down"))
		c.On("SetTranslation", mock.Anything, key, "Hello", mock.Anything).Return(errors.New("redis down"))

		a := New(p, discardLogger(), Options{Cache: c})
		got, err := a.TranslateText(ctx, "Bonjour", "en")
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
	})
}

func TestSummarizeTextScenarios(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{})
	ctx := context.Background()

	require.Greater(t, len(englishText), 150)
	summary := a.SummarizeText(ctx, englishText)
	assert.Less(t, len(summary), len(englishText))
	assert.True(t, strings.HasPrefix(summary, "- The quick brown fox"))

	assert.Equal(t, spanishText, a.SummarizeText(ctx, spanishText))
}

func TestSummarizeTextReturnsInputUnchanged(t *testing.T) {
	ctx := context.Background()
	inputs := []string{englishText, spanishText, "Bonjour tout le monde", ""}

	t.Run("capability absent", func(t *testing.T) {
		a := newStubAssistant(provider.StubOptions{NoSummarization: true})
		for _, text := range inputs {
			assert.Equal(t, text, a.SummarizeText(ctx, text))
		}
	})

	t.Run("non english", func(t *testing.T) {
		a := newStubAssistant(provider.StubOptions{})
		for _, text := range []string{spanishText, "Bonjour tout le monde", "Привет, как дела?"} {
			assert.Equal(t, text, a.SummarizeText(ctx, text))
		}
	})

	t.Run("detection absent", func(t *testing.T) {
		a := newStubAssistant(provider.StubOptions{NoDetection: true})
		assert.Equal(t, englishText, a.SummarizeText(ctx, englishText))
	})
}

func TestSummarizeTextSwallowsFailures(t *testing.T) {
	english := []capability.DetectionResult{{Language: "en", Confidence: 0.95}}

	tests := []struct {
		name  string
		setup func(*capability.MockSummarizerFactory)
	}{
		{
			name: "availability error",
			setup: func(f *capability.MockSummarizerFactory) {
				f.On("Availability", mock.Anything).Return(capability.Unavailable, errors.New("host error"))
			},
		},
		{
			name: "reported unavailable",
			setup: func(f *capability.MockSummarizerFactory) {
				f.On("Availability", mock.Anything).Return(capability.Unavailable, nil)
			},
		},
		{
			name: "download fails",
			setup: func(f *capability.MockSummarizerFactory) {
				s := new(capability.MockSummarizer)
				s.On("Ready", mock.Anything).Return(errors.New("network"))
				f.On("Availability", mock.Anything).Return(capability.AfterDownload, nil)
				f.On("Create", mock.Anything, mock.Anything).Return(s, nil)
			},
		},
		{
			name: "summarize fails",
			setup: func(f *capability.MockSummarizerFactory) {
				s := new(capability.MockSummarizer)
				s.On("Ready", mock.Anything).Return(nil)
				s.On("Summarize", mock.Anything, englishText).Return("", errors.New("model crashed"))
				f.On("Availability", mock.Anything).Return(capability.Readily, nil)
				f.On("Create", mock.Anything, mock.Anything).Return(s, nil)
			},
		},
		{
			name: "empty summary",
			setup: func(f *capability.MockSummarizerFactory) {
				s := new(capability.MockSummarizer)
				s.On("Ready", mock.Anything).Return(nil)
				s.On("Summarize", mock.Anything, englishText).Return("  ", nil)
				f.On("Availability", mock.Anything).Return(capability.Readily, nil)
				f.On("Create", mock.Anything, mock.Anything).Return(s, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, summarizers := mockProvider(english, nil)
			tt.setup(summarizers)
			a := New(p, discardLogger(), Options{})
			assert.Equal(t, englishText, a.SummarizeText(context.Background(), englishText))
		})
	}
}

func TestSummarizeTextPassesOptions(t *testing.T) {
	p, _, summarizers := mockProvider([]capability.DetectionResult{{Language: "en", Confidence: 0.95}}, nil)
	s := new(capability.MockSummarizer)
	s.On("Ready", mock.Anything).Return(nil)
	s.On("Summarize", mock.Anything, englishText).Return("A fox and a dog are friends.", nil)
	summarizers.On("Availability", mock.Anything).Return(capability.Readily, nil)
	summarizers.On("Create", mock.Anything, mock.MatchedBy(func(o capability.SummarizerOptions) bool {
		return o.Type == capability.SummaryTypeTLDR && o.Format == capability.SummaryFormatPlain && o.Length == capability.SummaryLengthMedium
	})).Return(s, nil)

	a := New(p, discardLogger(), Options{Summarizer: capability.SummarizerOptions{Type: capability.SummaryTypeTLDR}})
	summary := a.SummarizeText(context.Background(), englishText)
	assert.Equal(t, "A fox and a dog are friends.", summary)
	assert.True(t, Summarized(englishText, summary))
}

func TestCapabilities(t *testing.T) {
	a := newStubAssistant(provider.StubOptions{NoSummarization: true})
	assert.Equal(t, map[capability.Name]bool{
		capability.Detection:     true,
		capability.Translation:   true,
		capability.Summarization: false,
	}, a.Capabilities())
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"PT-br", "pt"},
		{" es ", "es"},
		{"fr-CA", "fr"},
		{"xx", "xx"},
		{"not a tag!", "not a tag!"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguage(tt.in))
		})
	}
}
