package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name to use.
	Model string

	// RequestTimeout is the timeout for status requests.
	RequestTimeout time.Duration

	// InferenceTimeout is the timeout for chat requests.
	InferenceTimeout time.Duration

	// AutoPullModel pulls the model when the server does not have it.
	AutoPullModel bool
}

// DefaultOllamaConfig returns sensible defaults.
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL:          "http://localhost:11434",
		Model:            "qwen3:8b",
		RequestTimeout:   30 * time.Second,
		InferenceTimeout: 120 * time.Second,
		AutoPullModel:    false,
	}
}

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	config     *OllamaConfig
	httpClient *http.Client
	available  bool
	modelReady bool
	mu         sync.RWMutex
}

// OllamaStatus reports server and model availability.
type OllamaStatus struct {
	Available    bool     `json:"available"`
	Version      string   `json:"version,omitempty"`
	ModelReady   bool     `json:"model_ready"`
	ModelName    string   `json:"model_name"`
	ModelsLoaded []string `json:"models_loaded,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// ChatOptions are the sampling parameters sent with a chat request.
type ChatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is the request body for /api/chat.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *ChatOptions  `json:"options,omitempty"`
}

// ChatResponse is the response from /api/chat.
type ChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// VersionResponse is the response from the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
}

// ListModelsResponse is the response from listing models.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelInfo describes a model.
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(config *OllamaConfig) *OllamaClient {
	if config == nil {
		config = DefaultOllamaConfig()
	}

	return &OllamaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// CheckAvailability checks if Ollama is running and has the model.
func (c *OllamaClient) CheckAvailability(ctx context.Context) *OllamaStatus {
	status := &OllamaStatus{
		ModelName: c.config.Model,
	}

	version, err := c.getVersion(ctx)
	if err != nil {
		status.Error = fmt.Sprintf("Ollama not available: %v", err)
		c.setAvailability(false, false)
		return status
	}

	status.Available = true
	status.Version = version

	models, err := c.listModels(ctx)
	if err != nil {
		status.Error = fmt.Sprintf("Failed to list models: %v", err)
		c.setAvailability(true, false)
		return status
	}

	family := strings.Split(c.config.Model, ":")[0]
	status.ModelsLoaded = make([]string, 0, len(models))
	for _, m := range models {
		status.ModelsLoaded = append(status.ModelsLoaded, m.Name)
		if strings.HasPrefix(m.Name, family) {
			status.ModelReady = true
		}
	}

	if !status.ModelReady && c.config.AutoPullModel {
		if pullErr := c.PullModel(ctx); pullErr != nil {
			status.Error = fmt.Sprintf("Failed to pull model: %v", pullErr)
		} else {
			status.ModelReady = true
		}
	}

	c.setAvailability(status.Available, status.ModelReady)
	return status
}

// IsAvailable reports the result of the last availability check.
func (c *OllamaClient) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available && c.modelReady
}

// Complete implements Completer through /api/chat.
func (c *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.User})

	resp, err := c.Chat(ctx, messages, &ChatOptions{
		Temperature: req.Temperature,
		NumPredict:  req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// Chat sends a chat completion request, checking availability first if the
// last check failed.
func (c *OllamaClient) Chat(ctx context.Context, messages []ChatMessage, options *ChatOptions) (*ChatResponse, error) {
	if !c.IsAvailable() {
		status := c.CheckAvailability(ctx)
		if !status.Available || !status.ModelReady {
			return nil, fmt.Errorf("ollama not available: %s", status.Error)
		}
	}

	req := &ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   false,
		Options:  options,
	}

	var chatResp ChatResponse
	client := &http.Client{Timeout: c.config.InferenceTimeout}
	if err := c.postJSON(ctx, client, "/api/chat", req, &chatResp); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	return &chatResp, nil
}

// PullModel pulls the configured model.
func (c *OllamaClient) PullModel(ctx context.Context) error {
	body := map[string]any{
		"name":   c.config.Model,
		"stream": false,
	}
	client := &http.Client{Timeout: 30 * time.Minute}
	if err := c.postJSON(ctx, client, "/api/pull", body, nil); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	return nil
}

func (c *OllamaClient) postJSON(ctx context.Context, client *http.Client, path string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *OllamaClient) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed with status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *OllamaClient) getVersion(ctx context.Context) (string, error) {
	var version VersionResponse
	if err := c.getJSON(ctx, "/api/version", &version); err != nil {
		return "", err
	}
	return version.Version, nil
}

func (c *OllamaClient) listModels(ctx context.Context) ([]ModelInfo, error) {
	var models ListModelsResponse
	if err := c.getJSON(ctx, "/api/tags", &models); err != nil {
		return nil, err
	}
	return models.Models, nil
}

func (c *OllamaClient) setAvailability(available, modelReady bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = available
	c.modelReady = modelReady
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}
