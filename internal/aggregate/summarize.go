package aggregate

import (
	"fmt"
	"strings"
)

// Sentences shorter than this are dropped when merging feedback texts.
const minSentenceLength = 20

// maxFeedbackQuotes caps how many distinct sentences are quoted directly
// before the merge switches to the templated multi-model summary.
const maxFeedbackQuotes = 3

// SummarizeFeedback merges feedback texts from multiple runs into one
// consolidated string. This is a deterministic text heuristic, not semantic
// summarization: distinct substantive sentences are deduplicated and either
// quoted directly or folded into a templated summary note.
func SummarizeFeedback(feedbacks []string) string {
	if len(feedbacks) == 0 {
		return "No feedback available"
	}
	if len(feedbacks) == 1 {
		return feedbacks[0]
	}

	var points []string
	seen := make(map[string]bool)

	for _, feedback := range feedbacks {
		for _, sentence := range splitSentences(feedback) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) > minSentenceLength && !seen[sentence] {
				seen[sentence] = true
				points = append(points, sentence)
			}
		}
	}

	if len(points) <= maxFeedbackQuotes {
		return strings.Join(points, " ")
	}

	return fmt.Sprintf("Multiple models provided consistent feedback: %s [Summary of %d model responses]",
		strings.Join(points[:maxFeedbackQuotes], " "), len(feedbacks))
}

func splitSentences(text string) []string {
	return strings.Split(strings.ReplaceAll(text, ".", ".\n"), "\n")
}

// dedupeSuggestions unions suggestion lists preserving first-seen order, then
// caps the merged list.
func dedupeSuggestions(suggestions []string, limit int) []string {
	seen := make(map[string]bool, len(suggestions))
	var out []string

	for _, suggestion := range suggestions {
		if suggestion == "" || seen[suggestion] {
			continue
		}
		seen[suggestion] = true
		out = append(out, suggestion)
		if len(out) == limit {
			break
		}
	}

	return out
}
