// Package llm provides a provider-neutral text completion interface with
// Ollama, OpenAI-compatible and Gemini backends.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no usable provider is configured.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider names accepted by New.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// CompletionRequest is a single system + user prompt exchange.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string        `toml:"provider"`
	Model    string        `toml:"model"`
	BaseURL  string        `toml:"base_url"`
	APIKey   string        `toml:"-"`
	Timeout  time.Duration `toml:"timeout"`
}

// New builds the Completer named by cfg.Provider. An empty provider, an
// unknown provider, or a hosted provider without an API key all yield an
// error wrapping ErrNotConfigured.
func New(cfg Config) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOllama:
		oc := DefaultOllamaConfig()
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.Timeout > 0 {
			oc.InferenceTimeout = cfg.Timeout
		}
		return NewOllamaClient(oc), nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai API key is empty", ErrNotConfigured)
		}
		oc := DefaultOpenAIConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.Timeout > 0 {
			oc.Timeout = cfg.Timeout
		}
		return NewOpenAIClient(oc), nil

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: gemini API key is empty", ErrNotConfigured)
		}
		return NewGeminiClient(context.Background(), GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})

	case "", "none":
		return nil, ErrNotConfigured

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
}

// Unavailable is a Completer that always fails with ErrNotConfigured. It
// lets callers keep a non-nil Completer when no provider is set up.
type Unavailable struct{}

// Complete implements Completer.
func (Unavailable) Complete(context.Context, CompletionRequest) (string, error) {
	return "", ErrNotConfigured
}
