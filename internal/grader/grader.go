package grader

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/campusml/nbgrade/internal/models"
	"github.com/campusml/nbgrade/internal/observability"
	"github.com/campusml/nbgrade/pkg/ai"
)

// HistoryEntry records one grading exchange for later inspection.
type HistoryEntry struct {
	Timestamp  time.Time
	ProblemID  string
	Prompt     string
	Completion string
	Result     models.GradingResult
}

// Grader sends one grading prompt per student response to the configured
// completer and parses the reply. It never fails a response: backend errors
// and malformed completions both yield the flagged fallback result.
type Grader struct {
	completer ai.Completer
	maxTokens int
	logger    zerolog.Logger
	history   []HistoryEntry
	now       func() time.Time
}

// NewGrader constructs a grader around the given completer.
func NewGrader(completer ai.Completer, maxTokens int, logger zerolog.Logger) *Grader {
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	return &Grader{
		completer: completer,
		maxTokens: maxTokens,
		logger:    logger.With().Str("component", "grader").Logger(),
		now:       time.Now,
	}
}

// Grade evaluates one response against its rubric. The returned result is
// always usable; failures are encoded as the zero-score fallback.
func (g *Grader) Grade(ctx context.Context, response models.StudentResponse, rubric models.ProblemRubric, assignmentContext string) models.GradingResult {
	tracer := otel.Tracer("github.com/campusml/nbgrade/internal/grader")
	ctx, span := tracer.Start(ctx, "grading.response")
	span.SetAttributes(
		attribute.String("grading.problem_id", response.ProblemID),
		attribute.String("grading.model", g.completer.ModelName()),
	)
	defer span.End()

	prompt := BuildGradingPrompt(response, rubric, assignmentContext)

	completion, err := g.completer.Complete(ctx, prompt, g.maxTokens)
	var result models.GradingResult
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		g.logger.Warn().Err(err).Str("problem", response.ProblemID).Msg("completion failed, producing fallback result")
		observability.ParseFailures().Inc()
		result = FallbackResult(response, rubric, err.Error())
	} else {
		result = ParseCompletion(completion, response, rubric)
		if result.Confidence == 0 && result.TotalScore == 0 && result.FlaggedForReview {
			observability.ParseFailures().Inc()
		}
	}

	observability.ResponsesGraded().WithLabelValues(strconv.FormatBool(result.FlaggedForReview)).Inc()
	span.SetAttributes(
		attribute.Float64("grading.total_score", result.TotalScore),
		attribute.Bool("grading.flagged", result.FlaggedForReview),
	)

	g.history = append(g.history, HistoryEntry{
		Timestamp:  g.now(),
		ProblemID:  response.ProblemID,
		Prompt:     prompt,
		Completion: completion,
		Result:     result,
	})

	return result
}

// ModelName reports the underlying completer's model identifier.
func (g *Grader) ModelName() string {
	return g.completer.ModelName()
}

// History returns the recorded grading exchanges.
func (g *Grader) History() []HistoryEntry {
	return g.history
}

// ClearHistory drops the recorded grading exchanges.
func (g *Grader) ClearHistory() {
	g.history = nil
}
