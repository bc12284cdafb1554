package generator

import (
	"context"
	"errors"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
)

const anthropicDefaultMaxTokens = 4096

// AnthropicLLM implements LLMClient with the Messages API. Anthropic has no JSON response
// mode, so structured calls prefill the assistant turn with "{".
type AnthropicLLM struct {
	Model  string
	client *anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return &AnthropicLLM{Model: cfg.Model, client: anthropic.NewClient(cfg.APIKey, opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt, opts Options) (Completion, error) {
	msgs := anthropicMessages(prompt, opts.Structured)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(a.Model),
		System:    prompt.System,
		Messages:  msgs,
		MaxTokens: maxTokens,
	}
	if opts.Temperature != nil {
		t := float32(*opts.Temperature)
		req.Temperature = &t
	}

	resp, err := a.client.CreateMessages(ctx, req)
	if err != nil {
		return Completion{}, err
	}
	text := resp.GetFirstContentText()
	if text == "" {
		return Completion{}, errors.New("anthropic: empty content")
	}
	if opts.Structured {
		text = "{" + text
	}
	return Completion{
		Text: text,
		Usage: Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// anthropicMessages orders history, then the user turn, then the structured-mode prefill.
func anthropicMessages(prompt Prompt, structured bool) []anthropic.Message {
	msgs := make([]anthropic.Message, 0, len(prompt.History)+2)
	for _, h := range prompt.History {
		switch h.Role {
		case RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantTextMessage(h.Content))
		default:
			msgs = append(msgs, anthropic.NewUserTextMessage(h.Content))
		}
	}
	msgs = append(msgs, anthropic.NewUserTextMessage(prompt.User))
	if structured {
		msgs = append(msgs, anthropic.NewAssistantTextMessage("{"))
	}
	return msgs
}
