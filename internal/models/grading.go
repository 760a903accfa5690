package models

// Response kinds describing the dominant cell type of a student response.
const (
	ResponseKindCode     = "code"
	ResponseKindMarkdown = "markdown"
	ResponseKindMixed    = "mixed"
)

// ProblemBoundary marks where a problem or part section begins in a notebook.
type ProblemBoundary struct {
	CellIndex int    `json:"cell_index"`
	Label     string `json:"label"`
	ProblemID string `json:"problem_id"`
}

// StudentResponse is the unit graded: all answer cells of one problem span,
// merged into a single content block with optional execution output.
type StudentResponse struct {
	ProblemID       string `json:"problem_id"`
	Content         string `json:"content"`
	CellKind        string `json:"cell_kind"`
	CellIndex       int    `json:"cell_index"`
	ExecutionOutput string `json:"execution_output,omitempty"`
	HasErrors       bool   `json:"has_errors"`
}

// GradingCriterion is a single weighted criterion within a problem rubric.
type GradingCriterion struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	MaxPoints   int    `json:"max_points" yaml:"points" validate:"gt=0"`
	Description string `json:"description" yaml:"description"`
	Guidelines  string `json:"guidelines" yaml:"guidelines"`
}

// ProblemRubric holds the grading criteria for one problem.
type ProblemRubric struct {
	ProblemID            string             `json:"problem_id"`
	TotalPoints          int                `json:"total_points"`
	Criteria             []GradingCriterion `json:"criteria"`
	ProblemStatement     string             `json:"problem_statement"`
	ExpectedResponseType string             `json:"expected_response_type"`
	Context              string             `json:"context,omitempty"`
}

// CriteriaPoints returns the sum of the rubric's per-criterion maximums.
func (r ProblemRubric) CriteriaPoints() int {
	total := 0
	for _, crit := range r.Criteria {
		total += crit.MaxPoints
	}
	return total
}

// GradingResult is the durable output of grading one (student, problem) pair.
// Results are never mutated after creation; corrections produce a new result.
type GradingResult struct {
	ProblemID        string             `json:"problem_id"`
	StudentID        string             `json:"student_id"`
	Scores           map[string]float64 `json:"scores"`
	TotalScore       float64            `json:"total_score"`
	MaxPossible      int                `json:"max_possible"`
	Percentage       float64            `json:"percentage"`
	Feedback         string             `json:"feedback"`
	Suggestions      []string           `json:"suggestions"`
	Confidence       float64            `json:"confidence"`
	FlaggedForReview bool               `json:"flagged_for_review"`
}
