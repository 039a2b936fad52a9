package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Get(1).(float64), args.Error(2)
}

func (m *MockClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	args := m.Called(ctx, text, source, target)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Summarize(ctx context.Context, text, instructions string) (string, error) {
	args := m.Called(ctx, text, instructions)
	return args.String(0), args.Error(1)
}
