package grader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusml/nbgrade/internal/models"
	"github.com/campusml/nbgrade/internal/notebook"
	"github.com/campusml/nbgrade/internal/observability"
	"github.com/campusml/nbgrade/internal/rubric"
)

// Summary aggregates statistics over the results accumulated in a session.
type Summary struct {
	TotalGraded   int     `json:"total_graded"`
	AverageScore  float64 `json:"average_score"`
	FlaggedCount  int     `json:"flagged_count"`
	AvgConfidence float64 `json:"avg_confidence"`
	TotalScore    float64 `json:"total_score"`
	TotalPossible int     `json:"total_possible"`
}

// Session coordinates one grading pass: parsing notebooks, loading rubrics,
// grading each response and accumulating results. State is owned by the
// session value and lives until Reset, so separate assignments should use
// separate sessions or reset in between.
type Session struct {
	parser  *notebook.Parser
	store   *rubric.Store
	grader  *Grader
	logger  zerolog.Logger
	results []models.GradingResult
}

// NewSession constructs a grading session from its collaborators.
func NewSession(parser *notebook.Parser, store *rubric.Store, grader *Grader, logger zerolog.Logger) *Session {
	return &Session{
		parser: parser,
		store:  store,
		grader: grader,
		logger: logger.With().Str("component", "grading_session").Logger(),
	}
}

// GradeNotebook grades every response extracted from one notebook file.
// Responses whose problem id has no rubric are skipped with a warning.
func (s *Session) GradeNotebook(ctx context.Context, path, assignmentID string) ([]models.GradingResult, error) {
	parsed, err := s.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	rubrics, err := s.store.Load(assignmentID)
	if err != nil {
		return nil, err
	}

	assignmentContext := fmt.Sprintf("Assignment: %s", assignmentID)
	var results []models.GradingResult

	for _, response := range parsed.Responses {
		problemRubric, ok := rubrics[response.ProblemID]
		if !ok {
			s.logger.Warn().Str("problem", response.ProblemID).Str("notebook", path).Msg("no rubric for problem, skipping response")
			continue
		}

		result := s.grader.Grade(ctx, response, problemRubric, assignmentContext)
		result.StudentID = parsed.StudentName
		results = append(results, result)

		s.logger.Info().
			Str("student", parsed.StudentName).
			Str("problem", response.ProblemID).
			Float64("score", result.TotalScore).
			Int("max", result.MaxPossible).
			Bool("flagged", result.FlaggedForReview).
			Msg("graded response")
	}

	s.results = append(s.results, results...)
	return results, nil
}

// GradeDirectory grades every notebook in a directory. One unreadable
// notebook cannot abort the pass: its entry maps to nil and processing
// continues with the remaining files.
func (s *Session) GradeDirectory(ctx context.Context, dir, assignmentID string) (map[string][]models.GradingResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read notebook directory: %w", err)
	}

	all := make(map[string][]models.GradingResult)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ipynb") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		results, err := s.GradeNotebook(ctx, path, assignmentID)
		if err != nil {
			s.logger.Error().Err(err).Str("notebook", entry.Name()).Msg("failed to grade notebook, continuing")
			observability.NotebooksProcessed().WithLabelValues("failed").Inc()
			all[entry.Name()] = nil
			continue
		}

		observability.NotebooksProcessed().WithLabelValues("graded").Inc()
		all[entry.Name()] = results
	}

	return all, nil
}

// Results returns all results accumulated since construction or the last Reset.
func (s *Session) Results() []models.GradingResult {
	return s.results
}

// Summary computes aggregate statistics over the accumulated results.
func (s *Session) Summary() Summary {
	if len(s.results) == 0 {
		return Summary{}
	}

	var summary Summary
	var confidenceSum float64

	for _, result := range s.results {
		summary.TotalGraded++
		summary.TotalScore += result.TotalScore
		summary.TotalPossible += result.MaxPossible
		confidenceSum += result.Confidence
		if result.FlaggedForReview {
			summary.FlaggedCount++
		}
	}

	if summary.TotalPossible > 0 {
		summary.AverageScore = summary.TotalScore / float64(summary.TotalPossible) * 100
	}
	summary.AvgConfidence = confidenceSum / float64(summary.TotalGraded)

	return summary
}

// Reset clears accumulated results and the grader's exchange history, making
// the session reusable for another assignment.
func (s *Session) Reset() {
	s.results = nil
	s.grader.ClearHistory()
}
