package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusml/nbgrade/internal/models"
)

// Writer exports grading results in the shapes downstream consumers expect:
// a grades CSV, per-student feedback files and a flagged-items CSV.
type Writer struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewWriter constructs a report writer.
func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{
		logger: logger.With().Str("component", "reports").Logger(),
		now:    time.Now,
	}
}

// Export writes all report artefacts for the given results under dir.
func (w *Writer) Export(dir string, results []models.GradingResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := w.WriteGradesCSV(filepath.Join(dir, "ai_grading_results.csv"), results); err != nil {
		return err
	}
	if err := w.WriteFeedbackFiles(filepath.Join(dir, "detailed_feedback"), results); err != nil {
		return err
	}
	if err := w.WriteFlaggedCSV(filepath.Join(dir, "flagged_for_review.csv"), results); err != nil {
		return err
	}
	if err := w.WriteDashboard(filepath.Join(dir, "grading_dashboard.html"), results); err != nil {
		return err
	}

	w.logger.Info().Str("dir", dir).Int("results", len(results)).Msg("exported grading reports")
	return nil
}

// WriteGradesCSV writes one row per graded (student, problem) pair.
func (w *Writer) WriteGradesCSV(path string, results []models.GradingResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create grades csv: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"Student Name", "Problem ID", "Total Score", "Max Possible", "Percentage", "Confidence", "Flagged for Review"}); err != nil {
		return err
	}

	for _, result := range results {
		row := []string{
			result.StudentID,
			result.ProblemID,
			formatScore(result.TotalScore),
			fmt.Sprintf("%d", result.MaxPossible),
			fmt.Sprintf("%.1f%%", result.Percentage),
			fmt.Sprintf("%.2f", result.Confidence),
			yesNo(result.FlaggedForReview),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFeedbackFiles writes one plaintext feedback file per student.
func (w *Writer) WriteFeedbackFiles(dir string, results []models.GradingResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feedback directory: %w", err)
	}

	for _, student := range studentOrder(results) {
		var b strings.Builder
		studentResults := resultsFor(results, student)

		fmt.Fprintf(&b, "AI Grading Feedback for: %s\n", student)
		b.WriteString(strings.Repeat("=", 60) + "\n\n")

		var totalScore float64
		var totalPossible int
		for _, result := range studentResults {
			totalScore += result.TotalScore
			totalPossible += result.MaxPossible
		}
		overall := 0.0
		if totalPossible > 0 {
			overall = totalScore / float64(totalPossible) * 100
		}
		fmt.Fprintf(&b, "Overall Score: %s/%d (%.1f%%)\n", formatScore(totalScore), totalPossible, overall)
		fmt.Fprintf(&b, "Generated: %s\n\n", w.now().Format("2006-01-02 15:04:05"))

		for _, result := range studentResults {
			fmt.Fprintf(&b, "PROBLEM: %s\n", result.ProblemID)
			b.WriteString(strings.Repeat("-", 30) + "\n")
			fmt.Fprintf(&b, "Score: %s/%d (%.1f%%)\n", formatScore(result.TotalScore), result.MaxPossible, result.Percentage)
			fmt.Fprintf(&b, "Confidence: %.2f\n\n", result.Confidence)

			if len(result.Scores) > 0 {
				b.WriteString("DETAILED SCORES:\n")
				for _, criterion := range sortedCriterionNames(result.Scores) {
					fmt.Fprintf(&b, "  %s: %s\n", criterion, formatScore(result.Scores[criterion]))
				}
				b.WriteString("\n")
			}

			b.WriteString("FEEDBACK:\n")
			b.WriteString(result.Feedback + "\n\n")

			if len(result.Suggestions) > 0 {
				b.WriteString("SUGGESTIONS FOR IMPROVEMENT:\n")
				for i, suggestion := range result.Suggestions {
					fmt.Fprintf(&b, "%d. %s\n", i+1, suggestion)
				}
				b.WriteString("\n")
			}

			if result.FlaggedForReview {
				b.WriteString("FLAGGED FOR INSTRUCTOR REVIEW\n")
			}
			b.WriteString(strings.Repeat("=", 60) + "\n\n")
		}

		path := filepath.Join(dir, safeFilename(student)+"_ai_feedback.txt")
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("write feedback for %s: %w", student, err)
		}
	}

	return nil
}

// WriteFlaggedCSV writes the flagged-items CSV. No file is produced when
// nothing is flagged.
func (w *Writer) WriteFlaggedCSV(path string, results []models.GradingResult) error {
	var flagged []models.GradingResult
	for _, result := range results {
		if result.FlaggedForReview {
			flagged = append(flagged, result)
		}
	}
	if len(flagged) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create flagged csv: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"Student Name", "Problem ID", "Score", "Confidence", "Reason", "Feedback"}); err != nil {
		return err
	}

	for _, result := range flagged {
		row := []string{
			result.StudentID,
			result.ProblemID,
			fmt.Sprintf("%s/%d", formatScore(result.TotalScore), result.MaxPossible),
			fmt.Sprintf("%.2f", result.Confidence),
			flagReason(result),
			truncate(result.Feedback, 100),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func flagReason(result models.GradingResult) string {
	switch {
	case strings.Contains(result.Feedback, "Score variance"):
		return "High variance between models"
	case result.Confidence < 0.7:
		return "Low confidence"
	default:
		return "Score validation issue"
	}
}

func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// safeFilename keeps alphanumerics, spaces, hyphens and underscores.
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func studentOrder(results []models.GradingResult) []string {
	seen := make(map[string]bool)
	var order []string
	for _, result := range results {
		if !seen[result.StudentID] {
			seen[result.StudentID] = true
			order = append(order, result.StudentID)
		}
	}
	return order
}

func resultsFor(results []models.GradingResult, student string) []models.GradingResult {
	var out []models.GradingResult
	for _, result := range results {
		if result.StudentID == student {
			out = append(out, result)
		}
	}
	return out
}

func sortedCriterionNames(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
