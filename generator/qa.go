package generator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type qaState int

const (
	qaCheckLength qaState = iota
	qaCheckQuality
	qaFix
	qaDone
)

// QA outcomes recorded on the report.
const (
	QADisabled    = "disabled"
	QAPassed      = "passed"
	QAFixedLength = "fixed_length"
	QAFixed       = "fixed_quality"
	QAFailed      = "failed"
)

// QAReport describes what the self-QA pass did to a draft.
type QAReport struct {
	Outcome   string `json:"outcome"`
	Critique  string `json:"critique,omitempty"`
	WordCount int    `json:"word_count"`
	Error     string `json:"error,omitempty"`
}

// SelfQA validates a draft and applies at most one corrective rewrite.
type SelfQA struct {
	enabled   bool
	completer *Completer
	maxTokens int
	logger    *zap.Logger
}

func NewSelfQA(enabled bool, completer *Completer, maxTokens int, logger *zap.Logger) *SelfQA {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelfQA{enabled: enabled, completer: completer, maxTokens: maxTokens, logger: logger}
}

// Enabled reports whether Review does any work.
func (q *SelfQA) Enabled() bool { return q != nil && q.enabled }

// LengthCritique is the deterministic critique for a draft under the bucket minimum.
func LengthCritique(words, min int) string {
	return fmt.Sprintf("- Draft is only %d words (< %d). Please expand.", words, min)
}

// Review runs CHECK_LENGTH, then CHECK_QUALITY or FIX, and stops after one fix. On a service
// error the input text is returned with the error; callers may keep it.
func (q *SelfQA) Review(ctx context.Context, text string, ct CopyType, length LengthBucket) (string, QAReport, error) {
	report := QAReport{WordCount: WordCount(text)}
	if !q.Enabled() {
		report.Outcome = QADisabled
		return text, report, nil
	}

	var (
		state    = qaCheckLength
		critique string
		outcome  string
		out      = text
	)
	for state != qaDone {
		switch state {
		case qaCheckLength:
			if length.TooShort(text) {
				critique = LengthCritique(report.WordCount, length.Min)
				outcome = QAFixedLength
				state = qaFix
				continue
			}
			state = qaCheckQuality

		case qaCheckQuality:
			resp, err := q.completer.Complete(ctx, BuildQAPrompt(text, ct), Options{})
			if err != nil {
				return q.fail(text, report, err)
			}
			if strings.Contains(strings.ToUpper(resp), "PASS") {
				outcome = QAPassed
				state = qaDone
				continue
			}
			critique = resp
			outcome = QAFixed
			state = qaFix

		case qaFix:
			fixed, err := q.completer.Complete(ctx, BuildFixPrompt(text, critique), Options{MaxTokens: q.maxTokens})
			if err != nil {
				report.Critique = critique
				return q.fail(text, report, err)
			}
			out = fixed
			state = qaDone
		}
	}

	report.Outcome = outcome
	report.Critique = critique
	qaOutcomesTotal.WithLabelValues(outcome).Inc()
	q.logger.Info("self-qa finished",
		zap.String("outcome", outcome),
		zap.Int("words_before", report.WordCount),
		zap.Int("words_after", WordCount(out)))
	return out, report, nil
}

func (q *SelfQA) fail(text string, report QAReport, err error) (string, QAReport, error) {
	report.Outcome = QAFailed
	report.Error = err.Error()
	qaOutcomesTotal.WithLabelValues(QAFailed).Inc()
	q.logger.Warn("self-qa call failed, keeping unreviewed draft", zap.Error(err))
	return text, report, err
}
