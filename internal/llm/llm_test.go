package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("ollama overrides", func(t *testing.T) {
		c, err := New(Config{Provider: "Ollama", Model: "llama3", BaseURL: "http://gpu:11434", Timeout: time.Minute})
		require.NoError(t, err)
		oc, ok := c.(*OllamaClient)
		require.True(t, ok)
		assert.Equal(t, "llama3", oc.Model())
		assert.Equal(t, "http://gpu:11434", oc.config.BaseURL)
		assert.Equal(t, time.Minute, oc.config.InferenceTimeout)
	})

	t.Run("openai", func(t *testing.T) {
		c, err := New(Config{Provider: "openai", APIKey: "k"})
		require.NoError(t, err)
		oc, ok := c.(*OpenAIClient)
		require.True(t, ok)
		assert.Equal(t, "gpt-4o-mini", oc.model)
	})

	t.Run("gemini", func(t *testing.T) {
		c, err := New(Config{Provider: "gemini", APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &GeminiClient{}, c)
	})

	for _, cfg := range []Config{
		{},
		{Provider: "none"},
		{Provider: "openai"},
		{Provider: "gemini"},
		{Provider: "claude", APIKey: "k"},
	} {
		t.Run("not configured "+cfg.Provider, func(t *testing.T) {
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Complete(context.Background(), CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"t:land"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey:  "k",
		Model:   "gemini-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "lands", Temperature: 0.3, MaxTokens: 150})
	require.NoError(t, err)
	assert.Equal(t, "t:land", out)
}
