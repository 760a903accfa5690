package notebook

import (
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// Markers used by the completion detector when judging markdown answers.
const (
	answerMarker      = "✏️ **Answer:**"
	answerPlaceholder = "*Put your answers here!*"
	taskTag           = "task"
)

var codeAnswerTags = []string{"code answer", "code-answer"}
var textAnswerTags = []string{"text answer", "text-answer"}

// BuildCompletionReport scans a whole notebook for presence of answers,
// independent of the problem boundaries used by the rubric grader. It counts
// answered code and markdown cells, records tasks whose following cell is not
// a tagged answer, and assigns the 0-4 completion grade.
func BuildCompletionReport(nb models.Notebook, studentName string) models.CompletionReport {
	var (
		totalCode        int
		answeredCode     int
		totalMarkdown    int
		answeredMarkdown int
		missing          []models.MissingAnswer
	)

	for i, cell := range nb.Cells {
		switch cell.Kind {
		case models.CellKindCode:
			totalCode++
			if cell.HasAnyTag(codeAnswerTags...) || hasExecutableLine(cell.Source.String()) {
				answeredCode++
			}

		case models.CellKindMarkdown:
			totalMarkdown++
			if markdownCompleted(cell) {
				answeredMarkdown++
			}
		}

		// A task cell must be followed by a tagged answer cell.
		if cell.HasAnyTag(taskTag) && i+1 < len(nb.Cells) {
			next := nb.Cells[i+1]
			if !next.HasAnyTag(codeAnswerTags...) && !next.HasAnyTag(textAnswerTags...) {
				missing = append(missing, models.MissingAnswer{
					TaskCellNumber:       i + 1,
					TaskContent:          strings.TrimSpace(cell.Source.String()),
					FollowingCellNumber:  i + 2,
					FollowingCellContent: strings.TrimSpace(next.Source.String()),
					FollowingCellKind:    next.Kind,
				})
			}
		}
	}

	codePct := percentage(answeredCode, totalCode)
	markdownPct := percentage(answeredMarkdown, totalMarkdown)
	totalPct := percentage(answeredCode+answeredMarkdown, totalCode+totalMarkdown)

	return models.CompletionReport{
		StudentName:         studentName,
		CodeAnsweredPct:     codePct,
		MarkdownAnsweredPct: markdownPct,
		TotalAnsweredPct:    totalPct,
		Grade:               CompletionGrade(codePct, markdownPct),
		MissingAnswers:      missing,
	}
}

// CompletionGrade converts answered percentages into the 0-4 completion grade:
// one point for any answered work, one for markdown coverage above 80%, two
// for code coverage above 80%.
func CompletionGrade(codePct, markdownPct float64) int {
	grade := 0
	if markdownPct > 80 {
		grade++
	}
	if codePct > 80 {
		grade += 2
	}
	if markdownPct > 0 || codePct > 0 {
		grade++
	}
	return grade
}

// markdownCompleted requires the text-answer tag plus content beyond the
// template placeholder after the answer marker.
func markdownCompleted(cell models.Cell) bool {
	if !cell.HasAnyTag(textAnswerTags...) {
		return false
	}

	content := cell.Source.String()
	if idx := strings.Index(content, answerMarker); idx >= 0 {
		content = content[idx+len(answerMarker):]
	}
	content = strings.TrimSpace(content)

	return content != "" && content != answerPlaceholder
}

func percentage(answered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(answered) / float64(total) * 100
}
