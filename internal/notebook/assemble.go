package notebook

import (
	"fmt"
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// ExtractResponses groups the answer cells between consecutive problem
// boundaries into one StudentResponse per boundary. Boundaries whose span
// contains no answer cells produce no response.
func ExtractResponses(cells []models.Cell, boundaries []models.ProblemBoundary) []models.StudentResponse {
	var responses []models.StudentResponse

	for i, boundary := range boundaries {
		start := boundary.CellIndex + 1
		end := len(cells)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].CellIndex
		}

		if response, ok := assembleSpan(cells, start, end, boundary.ProblemID); ok {
			responses = append(responses, response)
		}
	}

	return responses
}

func assembleSpan(cells []models.Cell, start, end int, problemID string) (models.StudentResponse, bool) {
	var (
		contentBlocks  []string
		outputBlocks   []string
		codeCount      int
		markdownCount  int
		hasErrors      bool
		firstCellIndex = start
		answerCount    int
	)

	for i := start; i < end && i < len(cells); i++ {
		cell := cells[i]
		if !IsAnswerCell(cell) {
			continue
		}

		answerCount++
		if answerCount == 1 {
			firstCellIndex = i
		}

		contentBlocks = append(contentBlocks, fmt.Sprintf("[%s CELL]\n%s", strings.ToUpper(cell.Kind), cell.Source.String()))

		if summary := OutputSummary(cell); summary != "" {
			outputBlocks = append(outputBlocks, fmt.Sprintf("[OUTPUT from cell %d]\n%s", i, summary))
		}

		if HasErrors(cell) {
			hasErrors = true
		}

		switch cell.Kind {
		case models.CellKindCode:
			codeCount++
		case models.CellKindMarkdown:
			markdownCount++
		}
	}

	if answerCount == 0 {
		return models.StudentResponse{}, false
	}

	return models.StudentResponse{
		ProblemID:       problemID,
		Content:         strings.Join(contentBlocks, "\n\n"),
		CellKind:        dominantKind(codeCount, markdownCount),
		CellIndex:       firstCellIndex,
		ExecutionOutput: strings.Join(outputBlocks, "\n\n"),
		HasErrors:       hasErrors,
	}, true
}

// dominantKind is mixed when both kinds are present; otherwise ties favour
// markdown, so code wins only on a strict majority.
func dominantKind(codeCount, markdownCount int) string {
	switch {
	case codeCount > 0 && markdownCount > 0:
		return models.ResponseKindMixed
	case codeCount > markdownCount:
		return models.ResponseKindCode
	default:
		return models.ResponseKindMarkdown
	}
}
