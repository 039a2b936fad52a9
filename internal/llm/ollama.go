package llm

import (
	"context"
	"fmt"

	"text-assist/internal/ollama"
)

// OllamaClient runs the language tasks against a local Ollama model.
type OllamaClient struct {
	api   *ollama.Client
	model string
}

func NewOllamaClient(api *ollama.Client, model string) *OllamaClient {
	return &OllamaClient{api: api, model: model}
}

func (c *OllamaClient) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	content, err := c.api.Chat(ctx, c.model,
		`Identify the language of the user's text. Reply with JSON only: {"language":"<ISO 639-1 code or und>","confidence":<0..1>}.`,
		text, "json")
	if err != nil {
		return "", 0, err
	}
	return ParseDetection(content)
}

func (c *OllamaClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	return c.api.Chat(ctx, c.model,
		fmt.Sprintf("Translate the user's text from %s to %s. Reply with the translation only.", source, target),
		text, "")
}

func (c *OllamaClient) Summarize(ctx context.Context, text, instructions string) (string, error) {
	return c.api.Chat(ctx, c.model, "Summarize the user's text. "+instructions, text, "")
}
