package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LLMClient abstracts the completion service so providers and mocks can be swapped.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, opts Options) (Completion, error)
}

// StreamingLLM is implemented by providers that can surface partial output.
// onDelta is called for every chunk; returning an error abandons the call.
type StreamingLLM interface {
	LLMClient
	CompleteStream(ctx context.Context, prompt Prompt, opts Options, onDelta func(string) error) (Completion, error)
}

// Options tune a single completion call.
type Options struct {
	// Structured requests a JSON-object shaped response.
	Structured  bool
	MaxTokens   int
	Temperature *float64
}

// Float returns a pointer for optional float options.
func Float(v float64) *float64 { return &v }

// Usage is the token accounting reported by the provider, when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the raw text returned by the model.
type Completion struct {
	Text  string
	Usage Usage
}

// LLMSettings is the provider configuration handed to the concrete implementations.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

const (
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

var errEmptyCompletion = errors.New("empty completion")

// NewLLM builds the client for settings.Provider.
func NewLLM(cfg *LLMSettings) (LLMClient, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAILLMFromConfig(cfg)
	case ProviderDeepSeek:
		// DeepSeek speaks the OpenAI protocol behind its own endpoint.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(cfg)
	case ProviderAnthropic:
		return NewAnthropicLLMFromConfig(cfg)
	case ProviderOllama:
		return NewOllamaLLMFromConfig(cfg)
	case ProviderMock:
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
