package capability

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider using testify/mock.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Detection() DetectorFactory {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(DetectorFactory)
}

func (m *MockProvider) Translation() TranslatorFactory {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(TranslatorFactory)
}

func (m *MockProvider) Summarization() SummarizerFactory {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(SummarizerFactory)
}

type MockDetectorFactory struct {
	mock.Mock
}

func (m *MockDetectorFactory) Availability(ctx context.Context) (State, error) {
	args := m.Called(ctx)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockDetectorFactory) Create(ctx context.Context, opts DetectorOptions) (Detector, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Detector), args.Error(1)
}

type MockTranslatorFactory struct {
	mock.Mock
}

func (m *MockTranslatorFactory) Availability(ctx context.Context) (State, error) {
	args := m.Called(ctx)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockTranslatorFactory) PairAvailability(ctx context.Context, source, target string) (PairAvailability, error) {
	args := m.Called(ctx, source, target)
	return args.Get(0).(PairAvailability), args.Error(1)
}

func (m *MockTranslatorFactory) Create(ctx context.Context, opts TranslatorOptions) (Translator, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Translator), args.Error(1)
}

type MockSummarizerFactory struct {
	mock.Mock
}

func (m *MockSummarizerFactory) Availability(ctx context.Context) (State, error) {
	args := m.Called(ctx)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockSummarizerFactory) Create(ctx context.Context, opts SummarizerOptions) (Summarizer, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Summarizer), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Ready(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDetector) Detect(ctx context.Context, text string) ([]DetectionResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DetectionResult), args.Error(1)
}

type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Ready(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Ready(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
