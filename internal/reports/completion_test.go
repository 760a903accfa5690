package reports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campusml/nbgrade/internal/models"
)

func TestWriteCompletionCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completion.csv")
	writer := NewWriter(zerolog.Nop())

	reports := []models.CompletionReport{
		{StudentName: "Alice Smith", CodeAnsweredPct: 100, MarkdownAnsweredPct: 90, TotalAnsweredPct: 95, Grade: 4},
		{
			StudentName:         "Bob Jones",
			CodeAnsweredPct:     50,
			MarkdownAnsweredPct: 0,
			TotalAnsweredPct:    25,
			Grade:               1,
			MissingAnswers:      []models.MissingAnswer{{TaskCellNumber: 3}},
		},
	}

	require.NoError(t, writer.WriteCompletionCSV(path, reports))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Student Name", "Code Cells Answered (%)", "Markdown Cells Answered (%)", "Total Answered (%)", "Final Grade", "Missing Answers Count"}, rows[0])
	require.Equal(t, []string{"Alice Smith", "100.0", "90.0", "95.0", "4", "0"}, rows[1])
	require.Equal(t, []string{"Bob Jones", "50.0", "0.0", "25.0", "1", "1"}, rows[2])
}

func TestWriteMissingAnswersReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zerolog.Nop())

	report := models.CompletionReport{
		StudentName: "Bob Jones",
		MissingAnswers: []models.MissingAnswer{
			{
				TaskCellNumber:      3,
				TaskContent:         "Explain overfitting.",
				FollowingCellNumber: 4,
				FollowingCellKind:   "markdown",
			},
		},
	}

	path, err := writer.WriteMissingAnswersReport(dir, report)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Bob Jones_missing_answers_report.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, "MISSING ANSWERS REPORT FOR: Bob Jones")
	require.Contains(t, text, "Total Missing Answers: 1")
	require.Contains(t, text, "MISSING ANSWER #1")
	require.Contains(t, text, "Task Cell Number: 3")
	require.Contains(t, text, "Expected Answer Cell Number: 4")
	require.Contains(t, text, "Explain overfitting.")
	require.Contains(t, text, "[EMPTY CELL]")
	require.Contains(t, text, "RECOMMENDATIONS:")
}

func TestWriteMissingAnswersReportSkipsCompleteStudents(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zerolog.Nop())

	path, err := writer.WriteMissingAnswersReport(dir, models.CompletionReport{StudentName: "Alice Smith"})
	require.NoError(t, err)
	require.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
