package ai

import "context"

// mockCompletion is a canned grading reply with the same key structure the
// prompt instructs real models to produce.
const mockCompletion = `{
  "scores": {
    "insight_quality": 12,
    "code_quality": 8,
    "visualization": 4
  },
  "total_score": 24,
  "percentage": 80.0,
  "feedback": "Good analysis with clear insights. Code implementation is solid but could use more comments. Visualizations are appropriate but labels could be clearer.",
  "suggestions": [
    "Add more detailed comments to your code",
    "Include axis labels and titles in your plots",
    "Consider discussing limitations of your analysis"
  ],
  "confidence": 0.85
}`

// Mock is a deterministic completer used for tests and as the degradation
// target when a real backend is misconfigured or unavailable.
type Mock struct{}

// Complete returns the canned grading reply.
func (Mock) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return mockCompletion, nil
}

// ModelName identifies the mock backend.
func (Mock) ModelName() string {
	return "mock-v1"
}
