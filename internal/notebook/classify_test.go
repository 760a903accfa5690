package notebook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusml/nbgrade/internal/models"
)

func codeCell(source string, tags ...string) models.Cell {
	return models.Cell{
		Kind:     models.CellKindCode,
		Source:   models.SourceText(source),
		Metadata: models.CellMetadata{Tags: tags},
	}
}

func markdownCell(source string, tags ...string) models.Cell {
	return models.Cell{
		Kind:     models.CellKindMarkdown,
		Source:   models.SourceText(source),
		Metadata: models.CellMetadata{Tags: tags},
	}
}

func TestIsAnswerCellTagAlwaysWins(t *testing.T) {
	// An explicitly tagged cell counts even when its content would fail the
	// heuristics, e.g. a code cell holding only comments.
	require.True(t, IsAnswerCell(codeCell("# just a comment", "code answer")))
	require.True(t, IsAnswerCell(codeCell("", "code-answer")))
	require.True(t, IsAnswerCell(markdownCell("## Part 1: Setup", "text answer")))
	require.True(t, IsAnswerCell(markdownCell("short", "text-answer")))
}

func TestIsAnswerCellEmpty(t *testing.T) {
	require.False(t, IsAnswerCell(codeCell("")))
	require.False(t, IsAnswerCell(markdownCell("   \n  ")))
}

func TestIsAnswerCellCodeNeedsExecutableLine(t *testing.T) {
	require.True(t, IsAnswerCell(codeCell("print(1 + 1)")))
	require.True(t, IsAnswerCell(codeCell("# setup\nimport pandas as pd")))
	require.False(t, IsAnswerCell(codeCell("# TODO\n# your code here")))
}

func TestIsAnswerCellMarkdownProblemStatement(t *testing.T) {
	// A short heading cell is a problem statement, not an answer.
	require.False(t, IsAnswerCell(markdownCell("## Part 1: From Exploration to Engineering (30 points)")))
	require.False(t, IsAnswerCell(markdownCell("---\n## Problem 2: Train-Test Splits")))
}

func TestIsAnswerCellMarkdownLongDiscussionWithIndicator(t *testing.T) {
	// A long cell is substantive student writing even if it quotes the
	// problem heading somewhere.
	content := "In this section I explore the dataset in depth.\n" +
		"First I looked at the distributions of each feature.\n" +
		"Then I checked for missing values and outliers.\n" +
		"The correlation matrix showed strong collinearity.\n" +
		"I decided to drop two redundant columns.\n" +
		"## Summary of findings above."
	require.True(t, IsAnswerCell(markdownCell(content)))
}

func TestIsAnswerCellMarkdownAnswerIndicators(t *testing.T) {
	require.True(t, IsAnswerCell(markdownCell("Answer: no answer")))
	require.True(t, IsAnswerCell(markdownCell("**Answer:** overfitting")))
	require.True(t, IsAnswerCell(markdownCell("Solution: use sklearn")))
	require.True(t, IsAnswerCell(markdownCell("Interpretation: the fit")))
}

func TestIsAnswerCellMarkdownLengthFallback(t *testing.T) {
	require.False(t, IsAnswerCell(markdownCell("A short note.")))
	require.True(t, IsAnswerCell(markdownCell("This explanation is definitely longer than fifty characters in total.")))
}

func TestHasErrors(t *testing.T) {
	clean := codeCell("print(1)")
	clean.Outputs = []models.Output{{Type: models.OutputTypeStream, Text: "1\n"}}
	require.False(t, HasErrors(clean))

	failed := codeCell("1/0")
	failed.Outputs = []models.Output{{Type: models.OutputTypeError, EName: "ZeroDivisionError", EValue: "division by zero"}}
	require.True(t, HasErrors(failed))

	// Error outputs on a markdown cell never count.
	md := markdownCell("text")
	md.Outputs = []models.Output{{Type: models.OutputTypeError}}
	require.False(t, HasErrors(md))
}
