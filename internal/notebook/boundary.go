package notebook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// Heading patterns that delimit problem sections, tried in order. The first
// pattern matching a cell wins.
var problemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)##\s*Part\s*(\d+):\s*(.+)`),
	regexp.MustCompile(`(?i)##\s*Problem\s*(\d+):\s*(.+)`),
}

var nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)

// IdentifyProblems scans markdown cells for problem headings and returns one
// boundary per matched cell, ordered by cell index. Two headings that reduce
// to the same problem id are an accepted edge case: during response assembly
// the later boundary wins, since responses are keyed by id downstream.
func IdentifyProblems(cells []models.Cell) []models.ProblemBoundary {
	var boundaries []models.ProblemBoundary

	for _, cell := range cells {
		if !cell.IsMarkdown() {
			continue
		}
		content := cell.Source.String()

		for _, pattern := range problemPatterns {
			match := pattern.FindStringSubmatch(content)
			if match == nil {
				continue
			}

			boundaries = append(boundaries, models.ProblemBoundary{
				CellIndex: cell.Index,
				Label:     boundaryLabel(match, content),
				ProblemID: problemID(match[1:], cell.Index),
			})
			break
		}
	}

	return boundaries
}

func boundaryLabel(match []string, content string) string {
	if len(match) > 2 {
		return strings.TrimSpace(match[2])
	}
	if len(content) > 50 {
		return content[:50]
	}
	return content
}

// problemID derives a stable id from the captured heading groups: a numeric
// first group becomes part_<n>, a textual group is lowercased, stripped of
// punctuation and reduced to its first three tokens, and anything else falls
// back to the heading's cell index.
func problemID(groups []string, cellIndex int) string {
	if len(groups) > 0 && groups[0] != "" {
		if isDigits(groups[0]) {
			return fmt.Sprintf("part_%s", groups[0])
		}
		clean := nonWordOrSpace.ReplaceAllString(groups[0], "")
		tokens := strings.Fields(strings.ToLower(clean))
		if len(tokens) > 3 {
			tokens = tokens[:3]
		}
		if len(tokens) > 0 {
			return strings.Join(tokens, "_")
		}
	}
	return fmt.Sprintf("problem_%d", cellIndex)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
