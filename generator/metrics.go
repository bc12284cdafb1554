package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copywriter_llm_requests_total",
			Help: "Total number of completion attempts, by outcome.",
		},
		[]string{"provider", "model", "status"},
	)
	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copywriter_llm_request_duration_seconds",
			Help:    "Histogram of completion call durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	llmPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copywriter_llm_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"provider", "model"},
	)
	llmCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copywriter_llm_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		},
		[]string{"provider", "model"},
	)
	llmRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copywriter_llm_retries_total",
			Help: "Total number of backoff waits before a retry.",
		},
		[]string{"provider", "model"},
	)
	draftParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copywriter_draft_parse_total",
			Help: "Structured draft decodes, partitioned by structured or fallback.",
		},
		[]string{"result"},
	)
	qaOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copywriter_self_qa_total",
			Help: "Self-QA outcomes.",
		},
		[]string{"outcome"},
	)
)

func observeUsage(provider, model string, u Usage) {
	if u.PromptTokens > 0 {
		llmPromptTokens.WithLabelValues(provider, model).Observe(float64(u.PromptTokens))
	}
	if u.CompletionTokens > 0 {
		llmCompletionTokens.WithLabelValues(provider, model).Observe(float64(u.CompletionTokens))
	}
}
