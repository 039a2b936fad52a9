package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"text-assist/internal/assistant"
	"text-assist/internal/cache"
	"text-assist/internal/capability"
	"text-assist/internal/config"
	"text-assist/internal/events"
	"text-assist/internal/llm"
	"text-assist/internal/logger"
	"text-assist/internal/ollama"
	"text-assist/internal/provider"
)

// Deps bundles the gateway's runtime dependencies.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Assistant *assistant.Assistant
	Cache     cache.Cache
	Events    events.Bus
}

// MonitorDeps bundles what the progress monitor needs.
type MonitorDeps struct {
	Config config.Config
	Log    *slog.Logger
	Events events.Bus
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	cfg, log, err := load()
	if err != nil {
		return Deps{}, err
	}

	p, err := BuildProvider(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize provider: %w", err)
	}
	bus, err := buildEvents(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	c := buildCache(cfg, log)

	a := assistant.New(p, log, assistant.Options{
		Observer: events.NewObserver(bus, log.With("component", "events")),
		Cache:    c,
		CacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		Summarizer: capability.SummarizerOptions{
			Type:   cfg.SummaryType,
			Format: cfg.SummaryFormat,
			Length: cfg.SummaryLength,
		},
	})
	return Deps{
		Config:    cfg,
		Log:       log,
		Assistant: a,
		Cache:     c,
		Events:    bus,
	}, nil
}

// BuildMonitor loads config and connects to the telemetry bus.
func BuildMonitor() (MonitorDeps, error) {
	cfg, log, err := load()
	if err != nil {
		return MonitorDeps{}, err
	}
	if cfg.EventsProvider != "nats" {
		return MonitorDeps{}, fmt.Errorf("monitor requires EVENTS_PROVIDER=nats, got %q", cfg.EventsProvider)
	}
	bus, err := buildEvents(cfg, log)
	if err != nil {
		return MonitorDeps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	return MonitorDeps{Config: cfg, Log: log, Events: bus}, nil
}

func load() (config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	return cfg, logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout), nil
}

// BuildProvider selects the capability backend named by PROVIDER.
func BuildProvider(cfg config.Config, log *slog.Logger) (capability.Provider, error) {
	log = log.With("component", "provider")
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI provider", "model", cfg.LLMModel)
		return provider.NewLLM(client, nil, cfg.SupportedLanguages, log)
	case "ollama":
		if cfg.OllamaBaseURL == "" {
			return nil, fmt.Errorf("OLLAMA_BASE_URL is required when PROVIDER=ollama")
		}
		api := ollama.NewClient(cfg.OllamaBaseURL)
		log.Info("using Ollama provider", "url", cfg.OllamaBaseURL, "model", cfg.OllamaModel)
		return provider.NewLLM(llm.NewOllamaClient(api, cfg.OllamaModel), ollama.NewModel(api, cfg.OllamaModel), cfg.SupportedLanguages, log)
	case "stub":
		log.Info("using stub provider", "download_languages", cfg.StubDownloadLanguages)
		return provider.NewStub(cfg.SupportedLanguages, provider.StubOptions{DownloadLanguages: cfg.StubDownloadLanguages}), nil
	default:
		return nil, fmt.Errorf("invalid PROVIDER: %s (valid options: openai, ollama, stub)", cfg.Provider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; translation cache disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis translation cache", "addr", cfg.RedisAddr)
		return c
	default:
		return cache.NewNoOpCache()
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Bus, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.EventsURL == "" {
			return nil, fmt.Errorf("EVENTS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.EventsURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS events")
		return events.NewNATS(log, nc), nil
	case "none", "":
		return events.Nop{}, nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: nats, none)", cfg.EventsProvider)
	}
}
