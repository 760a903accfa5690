package notebook

import (
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// ToMarkdown flattens a notebook into a single markdown document. Markdown
// cells pass through unchanged and code cells are fenced as python, which is
// useful when an entire submission must be attached to one prompt.
func ToMarkdown(nb models.Notebook) string {
	var lines []string

	for _, cell := range nb.Cells {
		switch cell.Kind {
		case models.CellKindMarkdown:
			lines = append(lines, cell.Source.String(), "")
		case models.CellKindCode:
			lines = append(lines, "```python", cell.Source.String(), "```", "")
		}
	}

	return strings.Join(lines, "\n")
}
