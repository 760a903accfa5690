package aggregate

import (
	"fmt"
	"math"

	"github.com/campusml/nbgrade/internal/models"
)

// DefaultVarianceThreshold is the score standard deviation (in points) above
// which a multi-run group is flagged for review.
const DefaultVarianceThreshold = 15.0

const (
	confidenceThreshold = 0.7
	maxSuggestions      = 5
)

type group struct {
	studentID   string
	problemID   string
	maxPossible int
	scores      []float64
	confidences []float64
	feedbacks   []string
	suggestions []string
}

// Aggregate merges per-run grading results into one consolidated result per
// (student, problem) pair: scores and confidences are averaged, feedback is
// heuristically summarised, and groups with high cross-run variance or low
// average confidence are flagged. The merged records are authoritative;
// per-run results are not retained.
func Aggregate(results []models.GradingResult, varianceThreshold float64) []models.GradingResult {
	if varianceThreshold <= 0 {
		varianceThreshold = DefaultVarianceThreshold
	}

	groups := make(map[string]*group)
	var order []string

	for _, result := range results {
		key := result.StudentID + "|" + result.ProblemID
		g, ok := groups[key]
		if !ok {
			g = &group{
				studentID:   result.StudentID,
				problemID:   result.ProblemID,
				maxPossible: result.MaxPossible,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.scores = append(g.scores, result.TotalScore)
		g.confidences = append(g.confidences, result.Confidence)
		g.feedbacks = append(g.feedbacks, result.Feedback)
		g.suggestions = append(g.suggestions, result.Suggestions...)
	}

	merged := make([]models.GradingResult, 0, len(order))
	for _, key := range order {
		g := groups[key]

		avgScore := mean(g.scores)
		avgConfidence := mean(g.confidences)
		stdev := sampleStdDev(g.scores)

		feedback := SummarizeFeedback(g.feedbacks)
		highVariance := stdev > varianceThreshold
		if highVariance {
			feedback += fmt.Sprintf(" [Score variance: %.1f]", stdev)
		}

		percentage := 0.0
		if g.maxPossible > 0 {
			percentage = round1(avgScore / float64(g.maxPossible) * 100)
		}

		merged = append(merged, models.GradingResult{
			ProblemID:        g.problemID,
			StudentID:        g.studentID,
			Scores:           map[string]float64{},
			TotalScore:       round1(avgScore),
			MaxPossible:      g.maxPossible,
			Percentage:       percentage,
			Feedback:         feedback,
			Suggestions:      dedupeSuggestions(g.suggestions, maxSuggestions),
			Confidence:       round2(avgConfidence),
			FlaggedForReview: highVariance || avgConfidence < confidenceThreshold,
		})
	}

	return merged
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation; a single run has no variance.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
