package llm

import "context"

// Client is a minimal chat-model interface for the language tasks.
type Client interface {
	DetectLanguage(ctx context.Context, text string) (language string, confidence float64, err error)
	Translate(ctx context.Context, text, source, target string) (string, error)
	Summarize(ctx context.Context, text, instructions string) (string, error)
}
