package notebook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

const (
	svgSnippetLimit  = 500
	htmlPreviewLimit = 1000
)

var (
	svgWidthPattern  = regexp.MustCompile(`width=["']?(\d+(?:\.\d+)?)`)
	svgHeightPattern = regexp.MustCompile(`height=["']?(\d+(?:\.\d+)?)`)
)

// Image formats considered for summary blocks, in precedence order. Only the
// first matching format per output entry is reported.
var imageFormats = []string{models.MimePNG, models.MimeJPEG, models.MimeSVG}

// OutputSummary flattens a code cell's captured outputs into a textual summary
// suitable for a grading prompt. Returns the empty string when no output
// produced a summary block.
func OutputSummary(cell models.Cell) string {
	if !cell.IsCode() || len(cell.Outputs) == 0 {
		return ""
	}

	var blocks []string

	for i, out := range cell.Outputs {
		n := i + 1

		switch {
		case out.Text != "":
			if text := out.Text.String(); strings.TrimSpace(text) != "" {
				blocks = append(blocks, fmt.Sprintf("[TEXT OUTPUT %d]\n%s", n, text))
			}

		case len(out.Data) > 0:
			if plain, ok := out.Data[models.MimePlainText]; ok {
				if text := plain.String(); strings.TrimSpace(text) != "" {
					blocks = append(blocks, fmt.Sprintf("[PLAIN TEXT OUTPUT %d]\n%s", n, text))
				}
			}

			for _, format := range imageFormats {
				payload, ok := out.Data[format]
				if !ok {
					continue
				}
				blocks = append(blocks, imageBlock(n, format, payload.String()))
				break
			}

			if html, ok := out.Data[models.MimeHTML]; ok {
				preview := html.String()
				if len(preview) > htmlPreviewLimit {
					preview = preview[:htmlPreviewLimit] + "...[truncated]"
				}
				blocks = append(blocks, fmt.Sprintf("[HTML OUTPUT %d]\n%s", n, preview))
			}
		}

		// Execution results contribute their own block even when the data
		// rules above already produced one for the same output entry.
		if out.Type == models.OutputTypeExecuteResult {
			if plain, ok := out.Data[models.MimePlainText]; ok {
				blocks = append(blocks, fmt.Sprintf("[EXECUTION RESULT %d]\n%s", n, plain.String()))
			}
		}
	}

	return strings.Join(blocks, "\n\n")
}

func imageBlock(n int, format, payload string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[IMAGE OUTPUT %d]\nFormat: %s\n", n, format)

	if format == models.MimeSVG {
		width := svgWidthPattern.FindStringSubmatch(payload)
		height := svgHeightPattern.FindStringSubmatch(payload)
		if width != nil && height != nil {
			fmt.Fprintf(&b, "Dimensions: %s x %s\n", width[1], height[1])
		}
		if len(payload) > svgSnippetLimit {
			fmt.Fprintf(&b, "SVG Content (first %d chars): %s...\n", svgSnippetLimit, payload[:svgSnippetLimit])
		} else {
			fmt.Fprintf(&b, "SVG Content: %s\n", payload)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Data size: ~%d characters (base64 encoded)\n", len(payload))
	b.WriteString("Image contains: Matplotlib plot/visualization\n")
	return b.String()
}
