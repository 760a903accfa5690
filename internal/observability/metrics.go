package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	responsesGraded    *prometheus.CounterVec
	notebooksProcessed *prometheus.CounterVec
	parseFailures      prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the grading
// pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		responsesGraded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nbgrade_responses_graded_total",
			Help: "Total number of student responses graded.",
		}, []string{"flagged"})

		notebooksProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nbgrade_notebooks_processed_total",
			Help: "Total number of notebooks processed during directory passes.",
		}, []string{"status"})

		parseFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nbgrade_completion_parse_failures_total",
			Help: "Total number of completions that fell back to a zero-score result.",
		})

		prometheus.MustRegister(responsesGraded, notebooksProcessed, parseFailures)
	})
}

// ResponsesGraded exposes the counter for graded responses, labelled by
// whether the result was flagged for review.
func ResponsesGraded() *prometheus.CounterVec {
	RegisterMetrics()
	return responsesGraded
}

// NotebooksProcessed exposes the counter for processed notebooks, labelled by
// outcome status.
func NotebooksProcessed() *prometheus.CounterVec {
	RegisterMetrics()
	return notebooksProcessed
}

// ParseFailures exposes the counter for completion parse fallbacks.
func ParseFailures() prometheus.Counter {
	RegisterMetrics()
	return parseFailures
}
