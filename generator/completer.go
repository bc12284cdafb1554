package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrCompletionFailed is returned once every attempt against the completion service failed.
var ErrCompletionFailed = errors.New("completion failed")

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// CompleterConfig controls retry and rate limiting around an LLMClient.
type CompleterConfig struct {
	Provider          string
	Model             string
	MaxAttempts       int
	BaseDelay         time.Duration
	RequestsPerMinute int
}

// Completer adds exponential-backoff retries, rate limiting, logging and metrics to an LLMClient.
type Completer struct {
	llm     LLMClient
	cfg     CompleterConfig
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *zap.Logger
}

// CompleterOption customises a Completer.
type CompleterOption func(*Completer)

// WithSleep replaces the backoff wait, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) CompleterOption {
	return func(c *Completer) { c.sleep = fn }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) CompleterOption {
	return func(c *Completer) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCompleter(llm LLMClient, cfg CompleterConfig, opts ...CompleterOption) (*Completer, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.Provider == "" {
		cfg.Provider = "unknown"
	}
	c := &Completer{
		llm:    llm,
		cfg:    cfg,
		sleep:  sleepContext,
		logger: zap.NewNop(),
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Backoff is the wait after the given zero-based failed attempt: base * 2^attempt.
func (c *Completer) Backoff(attempt int) time.Duration {
	return c.cfg.BaseDelay << uint(attempt)
}

// Complete calls the model until it returns non-empty text or MaxAttempts is reached.
func (c *Completer) Complete(ctx context.Context, prompt Prompt, opts Options) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		out, err := c.attempt(ctx, prompt, opts)
		if err == nil {
			return out.Text, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == c.cfg.MaxAttempts-1 {
			break
		}
		if err := c.wait(ctx, attempt, err); err != nil {
			lastErr = err
			break
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrCompletionFailed, c.cfg.MaxAttempts, lastErr)
}

// Once performs a single attempt with no retry.
func (c *Completer) Once(ctx context.Context, prompt Prompt, opts Options) (string, error) {
	out, err := c.attempt(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	return out.Text, nil
}

func (c *Completer) wait(ctx context.Context, attempt int, cause error) error {
	delay := c.Backoff(attempt)
	c.logger.Warn("completion attempt failed, backing off",
		zap.String("provider", c.cfg.Provider),
		zap.Int("attempt", attempt+1),
		zap.Int("max_attempts", c.cfg.MaxAttempts),
		zap.Duration("delay", delay),
		zap.Error(cause))
	llmRetriesTotal.WithLabelValues(c.cfg.Provider, c.cfg.Model).Inc()
	return c.sleep(ctx, delay)
}

func (c *Completer) attempt(ctx context.Context, prompt Prompt, opts Options) (Completion, error) {
	return c.call(ctx, opts, func() (Completion, error) {
		return c.llm.Complete(ctx, prompt, opts)
	})
}

func (c *Completer) call(ctx context.Context, opts Options, fn func() (Completion, error)) (Completion, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Completion{}, err
		}
	}
	start := time.Now()
	out, err := fn()
	duration := time.Since(start)
	llmRequestDuration.WithLabelValues(c.cfg.Provider, c.cfg.Model).Observe(duration.Seconds())

	if err == nil && strings.TrimSpace(out.Text) == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		llmRequestsTotal.WithLabelValues(c.cfg.Provider, c.cfg.Model, "error").Inc()
		c.logger.Debug("completion call failed",
			zap.String("provider", c.cfg.Provider),
			zap.Duration("duration", duration),
			zap.Error(err))
		return Completion{}, err
	}

	llmRequestsTotal.WithLabelValues(c.cfg.Provider, c.cfg.Model, "success").Inc()
	observeUsage(c.cfg.Provider, c.cfg.Model, out.Usage)
	c.logger.Debug("completion received",
		zap.String("provider", c.cfg.Provider),
		zap.Bool("structured", opts.Structured),
		zap.Duration("duration", duration),
		zap.Int("chars", len(out.Text)),
		zap.Int("prompt_tokens", out.Usage.PromptTokens),
		zap.Int("completion_tokens", out.Usage.CompletionTokens))
	out.Text = strings.TrimSpace(out.Text)
	return out, nil
}

// TextStream delivers partial output of a streamed completion. Chunks is closed when the
// upstream call ends; Wait then reports the full text.
type TextStream struct {
	chunks chan string
	done   chan struct{}
	text   string
	err    error
}

// Chunks must be drained, or the context cancelled, for the producer to finish.
func (s *TextStream) Chunks() <-chan string { return s.chunks }

// Wait blocks until the stream is finished.
func (s *TextStream) Wait() (string, error) {
	<-s.done
	return s.text, s.err
}

// Stream runs a completion and forwards partial text as it arrives. A failed attempt is retried
// only if nothing was emitted yet. Cancelling ctx abandons the call and closes the channel.
func (c *Completer) Stream(ctx context.Context, prompt Prompt, opts Options) *TextStream {
	s := &TextStream{chunks: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		defer close(s.chunks)
		s.text, s.err = c.stream(ctx, prompt, opts, func(delta string) error {
			select {
			case s.chunks <- delta:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return s
}

func (c *Completer) stream(ctx context.Context, prompt Prompt, opts Options, emit func(string) error) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		emitted := false
		onDelta := func(d string) error {
			emitted = true
			return emit(d)
		}
		out, err := c.call(ctx, opts, func() (Completion, error) {
			if s, ok := c.llm.(StreamingLLM); ok {
				return s.CompleteStream(ctx, prompt, opts, onDelta)
			}
			out, err := c.llm.Complete(ctx, prompt, opts)
			if err == nil && out.Text != "" {
				err = onDelta(out.Text)
			}
			return out, err
		})
		if err == nil {
			return out.Text, nil
		}
		lastErr = err
		if emitted || ctx.Err() != nil || attempt == c.cfg.MaxAttempts-1 {
			break
		}
		if err := c.wait(ctx, attempt, err); err != nil {
			lastErr = err
			break
		}
	}
	return "", fmt.Errorf("%w: stream: %w", ErrCompletionFailed, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
