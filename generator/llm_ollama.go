package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const ollamaDefaultBaseURL = "http://localhost:11434"

// OllamaLLM implements StreamingLLM against a local Ollama server.
type OllamaLLM struct {
	Model  string
	client *api.Client
}

func NewOllamaLLMFromConfig(cfg *LLMSettings) (*OllamaLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = ollamaDefaultBaseURL
	}
	// api.NewClient expects the root URL, not the OpenAI-compatible /v1 prefix.
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/v1")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", base, err)
	}
	return &OllamaLLM{
		Model:  cfg.Model,
		client: api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
	}, nil
}

func (o *OllamaLLM) request(prompt Prompt, opts Options, stream bool) *api.ChatRequest {
	msgs := []api.Message{{Role: "system", Content: prompt.System}}
	for _, h := range prompt.History {
		role := h.Role
		if role == "" {
			role = RoleUser
		}
		msgs = append(msgs, api.Message{Role: role, Content: h.Content})
	}
	msgs = append(msgs, api.Message{Role: RoleUser, Content: prompt.User})

	options := map[string]interface{}{}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if opts.Temperature != nil {
		options["temperature"] = *opts.Temperature
	}
	req := &api.ChatRequest{
		Model:    o.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  options,
	}
	if opts.Structured {
		req.Format = json.RawMessage(`"json"`)
	}
	return req
}

func (o *OllamaLLM) Complete(ctx context.Context, prompt Prompt, opts Options) (Completion, error) {
	var last api.ChatResponse
	err := o.client.Chat(ctx, o.request(prompt, opts, false), func(r api.ChatResponse) error {
		last = r
		return nil
	})
	if err != nil {
		return Completion{}, err
	}
	return Completion{Text: last.Message.Content, Usage: ollamaUsage(last)}, nil
}

func (o *OllamaLLM) CompleteStream(ctx context.Context, prompt Prompt, opts Options, onDelta func(string) error) (Completion, error) {
	var (
		sb   strings.Builder
		last api.ChatResponse
	)
	err := o.client.Chat(ctx, o.request(prompt, opts, true), func(r api.ChatResponse) error {
		last = r
		if r.Message.Content == "" {
			return nil
		}
		sb.WriteString(r.Message.Content)
		return onDelta(r.Message.Content)
	})
	if err != nil {
		return Completion{}, err
	}
	return Completion{Text: sb.String(), Usage: ollamaUsage(last)}, nil
}

func ollamaUsage(r api.ChatResponse) Usage {
	return Usage{
		PromptTokens:     r.PromptEvalCount,
		CompletionTokens: r.EvalCount,
		TotalTokens:      r.PromptEvalCount + r.EvalCount,
	}
}
