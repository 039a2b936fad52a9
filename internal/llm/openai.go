package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"text-assist/internal/chunker"
)

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	model  openai.ChatModel
	client *openai.Client
}

const (
	defaultChatTimeout     = 60 * time.Second
	defaultChatTemperature = 0.2

	// Inputs longer than this many words are summarized chunk by chunk first.
	summaryChunkWords   = 2500
	summaryChunkOverlap = 100
)

// NewOpenAIClient builds a client with defaults against api.openai.com.
func NewOpenAIClient(apiKey string, model openai.ChatModel, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIClient{
		model:  model,
		client: &cli,
	}, nil
}

func (c *OpenAIClient) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	content, err := c.complete(ctx,
		`Identify the language of the user's text. Reply with JSON only: {"language":"<ISO 639-1 code or und>","confidence":<0..1>}.`,
		text,
	)
	if err != nil {
		return "", 0, err
	}
	return ParseDetection(content)
}

func (c *OpenAIClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	return c.complete(ctx,
		fmt.Sprintf("Translate the user's text from %s to %s. Reply with the translation only, no commentary.", source, target),
		text,
	)
}

// Summarize condenses text. Long inputs are reduced per chunk and the partial
// summaries summarized again.
func (c *OpenAIClient) Summarize(ctx context.Context, text, instructions string) (string, error) {
	system := "You are a concise assistant. Summarize the user's text. " + instructions
	chunks := chunker.ChunkText(text, chunker.Options{MaxWords: summaryChunkWords, Overlap: summaryChunkOverlap})
	if len(chunks) <= 1 {
		return c.complete(ctx, system, text)
	}
	partials := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		part, err := c.complete(ctx, system, ch.Text)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d: %w", ch.Index, err)
		}
		partials = append(partials, part)
	}
	return c.complete(ctx, system, strings.Join(partials, "\n"))
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildMessages(system, user),
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

type detectionReply struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// ParseDetection reads the model's JSON reply, tolerating code fences.
func ParseDetection(content string) (string, float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var reply detectionReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return "", 0, fmt.Errorf("decode detection reply: %w", err)
	}
	lang := strings.ToLower(strings.TrimSpace(reply.Language))
	if lang == "" {
		lang = "und"
	}
	conf := reply.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return lang, conf, nil
}
