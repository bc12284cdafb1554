package generator

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultMaxOutputTokens = 10_000
	DefaultVariantCount    = 5
	variantTemperature     = 0.8
)

// AgentConfig holds generation knobs.
type AgentConfig struct {
	MaxTokens int
	AutoQA    bool
}

// Agent turns specs into drafts and post-processes finished copy.
type Agent struct {
	completer *Completer
	qa        *SelfQA
	maxTokens int
	logger    *zap.Logger
}

func NewAgent(completer *Completer, cfg AgentConfig, logger *zap.Logger) (*Agent, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxOutputTokens
	}
	return &Agent{
		completer: completer,
		qa:        NewSelfQA(cfg.AutoQA, completer, cfg.MaxTokens, logger.Named("qa")),
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Generate writes a new draft. A non-empty prior is revised against the current spec instead.
func (a *Agent) Generate(ctx context.Context, spec Spec, prior string) (Draft, error) {
	if err := spec.Validate(); err != nil {
		return Draft{}, err
	}
	raw, err := a.completer.Complete(ctx, BuildGeneratePrompt(spec, prior), a.generateOptions())
	if err != nil {
		return Draft{}, err
	}
	return a.finish(ctx, spec, raw, prior != ""), nil
}

// DraftStream exposes partial output of a streamed generation.
type DraftStream struct {
	text   *TextStream
	finish func(raw string) Draft
}

// Chunks yields raw partial text and is closed when the upstream call ends.
func (s *DraftStream) Chunks() <-chan string { return s.text.Chunks() }

// Result waits for the stream and returns the parsed, reviewed draft.
func (s *DraftStream) Result() (Draft, error) {
	raw, err := s.text.Wait()
	if err != nil {
		return Draft{}, err
	}
	return s.finish(raw), nil
}

// GenerateStream is Generate with incremental output.
func (a *Agent) GenerateStream(ctx context.Context, spec Spec, prior string) (*DraftStream, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ts := a.completer.Stream(ctx, BuildGeneratePrompt(spec, prior), a.generateOptions())
	return &DraftStream{
		text: ts,
		finish: func(raw string) Draft {
			return a.finish(ctx, spec, raw, prior != "")
		},
	}, nil
}

func (a *Agent) generateOptions() Options {
	return Options{Structured: true, MaxTokens: a.maxTokens}
}

func (a *Agent) finish(ctx context.Context, spec Spec, raw string, edit bool) Draft {
	parsed := ParseDraft(raw)
	if parsed.Kind == ParsedFallback {
		a.logger.Warn("structured response not decodable, using raw text as copy", zap.Error(parsed.DecodeErr))
	}

	text, report, err := a.qa.Review(ctx, parsed.Copy, spec.CopyType, spec.Length)
	if err != nil {
		// The unreviewed copy is still a usable draft.
		a.logger.Warn("self-qa skipped", zap.Error(err))
	}
	a.logger.Info("draft generated",
		zap.String("copy_type", string(spec.CopyType)),
		zap.String("length", spec.Length.Key),
		zap.String("country", string(spec.Country)),
		zap.Bool("edit", edit),
		zap.String("parse", parsed.Kind.String()),
		zap.Int("words", WordCount(text)))
	return Draft{
		Plan:     parsed.Plan,
		Copy:     text,
		CopyType: spec.CopyType,
		Length:   spec.Length,
		Fallback: parsed.Kind == ParsedFallback,
		QA:       &report,
	}
}

// Variants asks for n alternative headlines and CTAs. A malformed response is an error.
func (a *Agent) Variants(ctx context.Context, copyText string, n int) (Variants, error) {
	if strings.TrimSpace(copyText) == "" {
		return Variants{}, ErrEmptyCopy
	}
	if n <= 0 {
		n = DefaultVariantCount
	}
	raw, err := a.completer.Complete(ctx, BuildVariantsPrompt(copyText, n), Options{
		Structured:  true,
		Temperature: Float(variantTemperature),
	})
	if err != nil {
		return Variants{}, err
	}
	v, err := ParseVariants(raw)
	if err != nil {
		a.logger.Warn("variants response rejected", zap.Error(err))
		return Variants{}, err
	}
	return v, nil
}

// Critique returns short feedback on finished copy.
func (a *Agent) Critique(ctx context.Context, copyText string) (string, error) {
	if strings.TrimSpace(copyText) == "" {
		return "", ErrEmptyCopy
	}
	return a.completer.Complete(ctx, BuildCritiquePrompt(copyText), Options{})
}
