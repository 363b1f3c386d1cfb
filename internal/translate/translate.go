// Package translate turns natural language card queries into Scryfall
// search syntax with an LLM.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

var (
	// ErrEmptyQuery is returned for blank input.
	ErrEmptyQuery = errors.New("query is required")

	// ErrEmptyTranslation is returned when the model produced nothing usable.
	ErrEmptyTranslation = errors.New("model returned an empty translation")
)

const (
	temperature = 0.3
	maxTokens   = 150

	// DefaultCacheTTL is how long translations are reused.
	DefaultCacheTTL = time.Hour
)

// Translator converts natural language to Scryfall syntax.
type Translator struct {
	completer llm.Completer
	system    string
	cache     *cache
	logger    *zap.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithPrompt replaces the built-in few-shot prompt.
func WithPrompt(p *Prompt) Option {
	return func(t *Translator) { t.system = p.System() }
}

// WithCacheTTL sets the cache lifetime. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(t *Translator) { t.cache = newCache(ttl) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Translator) { t.logger = l }
}

// New creates a Translator backed by completer.
func New(completer llm.Completer, opts ...Option) *Translator {
	t := &Translator{
		completer: completer,
		system:    DefaultPrompt().System(),
		cache:     newCache(DefaultCacheTTL),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate returns the Scryfall query for a natural language request.
// Output is cleaned and parenthesis-balanced before it is cached.
func (t *Translator) Translate(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	key := strings.ToLower(query)
	if cached, ok := t.cache.get(key); ok {
		return cached, nil
	}

	raw, err := t.completer.Complete(ctx, llm.CompletionRequest{
		System:      t.system,
		User:        query,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("translate %q: %w", query, err)
	}

	cleaned := Clean(raw)
	if cleaned == "" {
		return "", ErrEmptyTranslation
	}

	balanced := scryfall.BalanceParentheses(cleaned)
	if balanced != cleaned {
		t.logger.Info("fixed unbalanced parentheses",
			zap.String("raw", cleaned),
			zap.String("fixed", balanced))
	}

	t.cache.set(key, balanced)
	return balanced, nil
}

// ClearCache drops every cached translation.
func (t *Translator) ClearCache() {
	t.cache.clear()
}

// Clean strips the decoration models tend to add around a bare query:
// code fences, surrounding back-ticks or quotes, and a "Scryfall syntax:" label.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// drop a language tag such as ```scryfall
			if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, " :") {
				s = s[nl+1:]
			}
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.TrimSpace(s)

	if len(s) >= len("scryfall syntax:") && strings.EqualFold(s[:len("scryfall syntax:")], "scryfall syntax:") {
		s = strings.TrimSpace(s[len("scryfall syntax:"):])
	}

	s = strings.Trim(s, "`")
	return strings.TrimSpace(s)
}
