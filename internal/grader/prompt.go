package grader

import (
	"fmt"
	"strings"

	"github.com/campusml/nbgrade/internal/models"
)

// imageOutputMarker is the block label emitted by the output extractor for
// visualizations; the prompt builder counts it to annotate the prompt.
const imageOutputMarker = "IMAGE OUTPUT"

// BuildGradingPrompt renders the deterministic grading request for one
// student response. The JSON keys named in the RESPONSE FORMAT block are a
// wire contract with ParseCompletion; changing one side requires changing
// the other.
func BuildGradingPrompt(response models.StudentResponse, rubric models.ProblemRubric, assignmentContext string) string {
	var b strings.Builder

	b.WriteString("You are an expert machine learning instructor grading student homework. ")
	b.WriteString("You are evaluating a student's complete response to a problem that may contain multiple cells (markdown explanations, code implementations, and outputs).\n\n")

	b.WriteString("ASSIGNMENT CONTEXT:\n")
	b.WriteString(assignmentContext)
	b.WriteString("\n\nPROBLEM STATEMENT:\n")
	b.WriteString(rubric.ProblemStatement)
	fmt.Fprintf(&b, "\n\nTOTAL POINTS POSSIBLE: %d\n\n", rubric.TotalPoints)

	b.WriteString("GRADING CRITERIA:\n")
	for _, crit := range rubric.Criteria {
		fmt.Fprintf(&b, "- %s (%d points): %s\n  Guidelines: %s\n", crit.Name, crit.MaxPoints, crit.Description, crit.Guidelines)
	}

	b.WriteString("\nSTUDENT RESPONSE ANALYSIS:\n")
	b.WriteString(responseKindNote(response.CellKind))

	b.WriteString("\n\nSTUDENT RESPONSE CONTENT:\n")
	b.WriteString(response.Content)

	if response.ExecutionOutput != "" {
		b.WriteString("\n\nEXECUTION OUTPUTS AND RESULTS:\n")
		b.WriteString(response.ExecutionOutput)

		if count := strings.Count(response.ExecutionOutput, imageOutputMarker); count > 0 {
			fmt.Fprintf(&b, "\n\n[ANALYSIS NOTE: This response generated %d visualization(s)]", count)
		}

		upper := strings.ToUpper(response.ExecutionOutput)
		if strings.Contains(upper, "ERROR") || strings.Contains(upper, "TRACEBACK") {
			b.WriteString("\n\n[ANALYSIS NOTE: Execution errors detected in output]")
		}
	}

	if response.HasErrors {
		b.WriteString("\n\nIMPORTANT: This response contains execution errors that may affect the grade.")
	}

	b.WriteString(`

GRADING INSTRUCTIONS:
1. Holistic Evaluation: Consider the complete response including explanations, code, and outputs together
2. Cell Type Analysis:
   - [MARKDOWN CELL] sections contain explanations, reasoning, and text responses
   - [CODE CELL] sections contain implementation and technical work
   - Evaluate how well these components work together
3. Output Assessment:
   - Check if code execution was successful
   - Verify that visualizations/outputs align with the code
   - Consider whether outputs demonstrate correct implementation
4. Technical Quality: Assess code correctness, style, and documentation
5. Conceptual Understanding: Evaluate explanations and reasoning quality
6. Integration: Consider how well code and explanations support each other

SCORING GUIDELINES:
- Assign points for each criterion (0 to maximum specified)
- Consider both technical execution AND conceptual understanding
- Deduct points for errors, missing components, or poor explanations
- Reward clear integration between code and explanations
- Account for visualization quality when images are present

RESPONSE FORMAT:
Reply with a single JSON object inside a fenced code block, with detailed, constructive feedback:

` + "```json" + `
{
  "scores": {"criterion_name": points_awarded, ...},
  "total_score": total_points_awarded,
  "percentage": percentage_score,
  "feedback": "Comprehensive feedback addressing both technical and conceptual aspects...",
  "suggestions": ["Specific improvement suggestion 1", "Specific improvement suggestion 2", ...],
  "confidence": confidence_score_0_to_1
}
` + "```" + `

Focus on providing actionable feedback that helps the student improve both their technical skills and their ability to explain their work clearly.`)

	return b.String()
}

func responseKindNote(kind string) string {
	note := fmt.Sprintf("Response Type: %s", kind)
	switch kind {
	case models.ResponseKindMixed:
		note += " (contains both code and markdown cells)"
	case models.ResponseKindCode:
		note += " (primarily code implementation)"
	case models.ResponseKindMarkdown:
		note += " (primarily text/explanation)"
	}
	return note
}
