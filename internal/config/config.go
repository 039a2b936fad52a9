package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the gateway and monitor.
type Config struct {
	// Server
	Port           int           `env:"PORT" envDefault:"8080"`
	HealthPort     int           `env:"HEALTH_PORT" envDefault:"8081"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`    // "json" or "text"
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5m"` // bounds model downloads too
	MaxTextLength  int           `env:"MAX_TEXT_LENGTH" envDefault:"20000"`

	// Capability provider
	Provider           string   `env:"PROVIDER" envDefault:"stub"` // "openai", "ollama" or "stub"
	OpenAIKey          string   `env:"OPENAI_API_KEY"`
	LLMModel           string   `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	OllamaBaseURL      string   `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel        string   `env:"OLLAMA_MODEL" envDefault:"qwen2.5:0.5b"`
	SupportedLanguages []string `env:"SUPPORTED_LANGUAGES" envSeparator:"," envDefault:"en,pt,es,ru,tr,fr"`

	// Pairs touching these languages simulate a model download in the stub provider.
	StubDownloadLanguages []string `env:"STUB_DOWNLOAD_LANGUAGES" envSeparator:"," envDefault:"ru,tr"`

	// Summaries
	SummaryType   string `env:"SUMMARY_TYPE" envDefault:"key-points"`
	SummaryFormat string `env:"SUMMARY_FORMAT" envDefault:"plain-text"`
	SummaryLength string `env:"SUMMARY_LENGTH" envDefault:"medium"`

	// Translation cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Telemetry
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "nats" or "none"
	EventsURL      string `env:"EVENTS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
