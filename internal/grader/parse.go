package grader

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/campusml/nbgrade/internal/models"
)

// Review threshold: results whose confidence falls below this value are
// flagged for mandatory human review.
const confidenceThreshold = 0.7

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// completionPayload is the wire contract with BuildGradingPrompt's RESPONSE
// FORMAT block. Pointer fields distinguish absent keys from zero values.
type completionPayload struct {
	Scores      map[string]float64 `json:"scores"`
	TotalScore  *float64           `json:"total_score"`
	Percentage  *float64           `json:"percentage"`
	Feedback    string             `json:"feedback"`
	Suggestions []string           `json:"suggestions"`
	Confidence  *float64           `json:"confidence"`
}

// ParseCompletion turns the model's raw reply into a GradingResult. It never
// fails: any extraction or decoding problem yields a deterministic zero-score
// result flagged for review, so the pipeline always produces one result per
// response.
func ParseCompletion(raw string, response models.StudentResponse, rubric models.ProblemRubric) models.GradingResult {
	payload, err := decodePayload(raw)
	if err != nil {
		return FallbackResult(response, rubric, fmt.Sprintf("parse error: %v", err))
	}

	totalScore := 0.0
	if payload.TotalScore != nil {
		totalScore = *payload.TotalScore
	} else {
		for _, score := range payload.Scores {
			totalScore += score
		}
	}

	confidence := 0.5
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}

	percentage := 0.0
	switch {
	case payload.Percentage != nil:
		percentage = *payload.Percentage
	case rubric.TotalPoints > 0:
		percentage = totalScore / float64(rubric.TotalPoints) * 100
	}

	feedback := payload.Feedback
	if feedback == "" {
		feedback = "No feedback provided"
	}

	scores := payload.Scores
	if scores == nil {
		scores = map[string]float64{}
	}

	// A score above the rubric maximum is itself a red flag, never clamped.
	flagged := confidence < confidenceThreshold || totalScore > float64(rubric.TotalPoints)

	return models.GradingResult{
		ProblemID:        response.ProblemID,
		Scores:           scores,
		TotalScore:       totalScore,
		MaxPossible:      rubric.TotalPoints,
		Percentage:       percentage,
		Feedback:         feedback,
		Suggestions:      payload.Suggestions,
		Confidence:       confidence,
		FlaggedForReview: flagged,
	}
}

// FallbackResult is the deterministic zero-score result produced when grading
// or parsing fails for a response.
func FallbackResult(response models.StudentResponse, rubric models.ProblemRubric, errMsg string) models.GradingResult {
	scores := make(map[string]float64, len(rubric.Criteria))
	for _, crit := range rubric.Criteria {
		scores[crit.Name] = 0
	}

	return models.GradingResult{
		ProblemID:        response.ProblemID,
		Scores:           scores,
		TotalScore:       0,
		MaxPossible:      rubric.TotalPoints,
		Percentage:       0,
		Feedback:         fmt.Sprintf("Grading error occurred: %s", errMsg),
		Suggestions:      []string{"Please review this submission manually"},
		Confidence:       0,
		FlaggedForReview: true,
	}
}

func decodePayload(raw string) (completionPayload, error) {
	candidate, err := extractJSON(raw)
	if err != nil {
		return completionPayload{}, err
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
		return payload, nil
	}

	// The model sometimes returns almost-JSON (trailing commas, single
	// quotes); try a repair pass before giving up.
	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return completionPayload{}, fmt.Errorf("invalid json in completion: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return completionPayload{}, fmt.Errorf("invalid json in completion: %w", err)
	}
	return payload, nil
}

// extractJSON prefers a fenced code block, which the prompt asks for, and
// falls back to scanning for the outermost brace pair. The brace scan is
// fragile against literal braces inside feedback text; the fenced form is
// the supported contract.
func extractJSON(raw string) (string, error) {
	if match := fencedBlockPattern.FindStringSubmatch(raw); match != nil {
		return match[1], nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in completion")
	}
	return raw[start : end+1], nil
}
