package models

// MissingAnswer records a task cell whose following cell carries no tagged answer.
// Cell numbers are 1-based to match what students see in the notebook UI.
type MissingAnswer struct {
	TaskCellNumber       int    `json:"task_cell_number"`
	TaskContent          string `json:"task_content"`
	FollowingCellNumber  int    `json:"following_cell_number"`
	FollowingCellContent string `json:"following_cell_content"`
	FollowingCellKind    string `json:"following_cell_kind"`
}

// CompletionReport summarises how much of a notebook was answered, independent
// of answer quality.
type CompletionReport struct {
	StudentName         string          `json:"student_name"`
	CodeAnsweredPct     float64         `json:"code_answered_pct"`
	MarkdownAnsweredPct float64         `json:"markdown_answered_pct"`
	TotalAnsweredPct    float64         `json:"total_answered_pct"`
	Grade               int             `json:"grade"`
	MissingAnswers      []MissingAnswer `json:"missing_answers,omitempty"`
}
