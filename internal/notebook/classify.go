package notebook

import (
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// Answer tags recognised in cell metadata. Both spaced and hyphenated forms
// occur in notebooks produced by different template generations.
var answerTags = []string{"code answer", "text answer", "code-answer", "text-answer"}

// Substrings that mark a markdown cell as a problem statement rather than an answer.
var problemIndicators = []string{"##", "(10)", "(20)", "(30)", "(40)", "points)", "---"}

// Substrings that mark a markdown cell as a student answer, checked case-insensitively.
var answerIndicators = []string{"answer:", "**answer:**", "solution:", "response:", "###", "interpretation:", "why these help:"}

// IsAnswerCell decides whether a cell contains student-authored content.
// Explicit answer tags always win; otherwise code cells need at least one
// executable line and markdown cells go through a content heuristic.
func IsAnswerCell(cell models.Cell) bool {
	if cell.HasAnyTag(answerTags...) {
		return true
	}

	content := strings.TrimSpace(cell.Source.String())
	if content == "" {
		return false
	}

	switch cell.Kind {
	case models.CellKindCode:
		return hasExecutableLine(content)
	case models.CellKindMarkdown:
		return markdownIsAnswer(content)
	}

	// Unrecognised cell kinds with content are included rather than dropped.
	return true
}

// HasErrors reports whether any of a code cell's outputs is an error output.
func HasErrors(cell models.Cell) bool {
	if !cell.IsCode() {
		return false
	}
	for _, out := range cell.Outputs {
		if out.Type == models.OutputTypeError {
			return true
		}
	}
	return false
}

func hasExecutableLine(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return true
		}
	}
	return false
}

func markdownIsAnswer(content string) bool {
	// Short cells leading with a problem indicator are problem statements,
	// not answers. Long substantive discussion is never suppressed here.
	if containsAny(content, problemIndicators) {
		head := content
		if len(head) > 100 {
			head = head[:100]
		}
		if strings.Count(content, "\n") < 5 && containsAny(head, problemIndicators) {
			return false
		}
	}

	lower := strings.ToLower(content)
	if containsAny(lower, answerIndicators) {
		return true
	}

	return len(content) > 50
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
