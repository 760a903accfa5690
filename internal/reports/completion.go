package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// WriteCompletionCSV writes the completion-detector results, one row per
// student notebook.
func (w *Writer) WriteCompletionCSV(path string, reports []models.CompletionReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create completion csv: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"Student Name", "Code Cells Answered (%)", "Markdown Cells Answered (%)", "Total Answered (%)", "Final Grade", "Missing Answers Count"}); err != nil {
		return err
	}

	for _, report := range reports {
		row := []string{
			report.StudentName,
			fmt.Sprintf("%.1f", report.CodeAnsweredPct),
			fmt.Sprintf("%.1f", report.MarkdownAnsweredPct),
			fmt.Sprintf("%.1f", report.TotalAnsweredPct),
			fmt.Sprintf("%d", report.Grade),
			fmt.Sprintf("%d", len(report.MissingAnswers)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMissingAnswersReport writes an individual plaintext report for a
// student with incomplete work. Returns the written path, or the empty
// string when the student has no missing answers.
func (w *Writer) WriteMissingAnswersReport(dir string, report models.CompletionReport) (string, error) {
	if len(report.MissingAnswers) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "MISSING ANSWERS REPORT FOR: %s\n", report.StudentName)
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Total Missing Answers: %d\n", len(report.MissingAnswers))
	fmt.Fprintf(&b, "Report Generated: %s\n\n", w.now().Format("2006-01-02 15:04:05"))

	for i, missing := range report.MissingAnswers {
		fmt.Fprintf(&b, "MISSING ANSWER #%d\n", i+1)
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "Task Cell Number: %d\n", missing.TaskCellNumber)
		fmt.Fprintf(&b, "Expected Answer Cell Number: %d\n", missing.FollowingCellNumber)
		fmt.Fprintf(&b, "Following Cell Type: %s\n\n", missing.FollowingCellKind)

		b.WriteString("TASK CONTENT:\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		b.WriteString(missing.TaskContent + "\n\n")

		b.WriteString("CURRENT CONTENT IN FOLLOWING CELL:\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		if missing.FollowingCellContent != "" {
			b.WriteString(missing.FollowingCellContent + "\n")
		} else {
			b.WriteString("[EMPTY CELL]\n")
		}
		b.WriteString("\n" + rule + "\n\n")
	}

	b.WriteString("RECOMMENDATIONS:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	b.WriteString("1. Review each task above and provide appropriate answers\n")
	b.WriteString("2. Make sure answer cells are properly tagged with 'code answer' or 'text answer'\n")
	b.WriteString("3. For text answers, use the answer marker followed by your response\n")
	b.WriteString("4. For code answers, write actual code (not just comments)\n")

	path := filepath.Join(dir, safeFilename(report.StudentName)+"_missing_answers_report.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write missing answers report: %w", err)
	}
	return path, nil
}
