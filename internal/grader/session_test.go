package grader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campusml/nbgrade/internal/notebook"
	"github.com/campusml/nbgrade/internal/rubric"
)

const sessionRubricYAML = `part_1:
  total_points: 10
  problem_statement: Basics
  expected_response_type: code
  criteria:
    correctness:
      points: 10
      description: Correct result
`

const sessionNotebook = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": "## Part 1: Basics"},
    {"cell_type": "code", "metadata": {"tags": ["code answer"]}, "source": "print(1 + 1)", "outputs": [
      {"output_type": "stream", "name": "stdout", "text": "2\n"}
    ]},
    {"cell_type": "markdown", "metadata": {}, "source": "## Part 2: Uncovered"},
    {"cell_type": "code", "metadata": {}, "source": "model.fit(X, y)"}
  ]
}`

func newTestSession(t *testing.T, completer *stubCompleter) (*Session, string) {
	t.Helper()

	rubricsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rubricsDir, "hw.yaml"), []byte(sessionRubricYAML), 0o644))

	notebooksDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(notebooksDir, "Alice_Smith.ipynb"), []byte(sessionNotebook), 0o644))

	validate := validator.New(validator.WithRequiredStructEnabled())
	store := rubric.NewStore(rubricsDir, validate, zerolog.Nop())
	parser := notebook.NewParser(zerolog.Nop())
	session := NewSession(parser, store, NewGrader(completer, 1500, zerolog.Nop()), zerolog.Nop())

	return session, notebooksDir
}

func TestGradeNotebookEndToEnd(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n" + `{"scores": {"correctness": 8}, "total_score": 8, "confidence": 0.9, "feedback": "Almost perfect."}` + "\n```"}
	session, dir := newTestSession(t, stub)

	results, err := session.GradeNotebook(context.Background(), filepath.Join(dir, "Alice_Smith.ipynb"), "hw")
	require.NoError(t, err)

	// part_2 has no rubric entry, so only part_1 is graded.
	require.Len(t, results, 1)
	result := results[0]
	require.Equal(t, "Alice Smith", result.StudentID)
	require.Equal(t, "part_1", result.ProblemID)
	require.Equal(t, 8.0, result.TotalScore)
	require.Equal(t, 10, result.MaxPossible)
	require.Equal(t, 80.0, result.Percentage)
	require.False(t, result.FlaggedForReview)
}

func TestGradeDirectoryContinuesPastBadNotebook(t *testing.T) {
	stub := &stubCompleter{reply: `{"total_score": 8, "confidence": 0.9}`}
	session, dir := newTestSession(t, stub)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken_File.ipynb"), []byte("{oops"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a notebook"), 0o644))

	all, err := session.GradeDirectory(context.Background(), dir, "hw")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Nil(t, all["Broken_File.ipynb"])
	require.Len(t, all["Alice_Smith.ipynb"], 1)
}

func TestSessionSummaryAndReset(t *testing.T) {
	stub := &stubCompleter{reply: `{"scores": {"correctness": 8}, "total_score": 8, "confidence": 0.9}`}
	session, dir := newTestSession(t, stub)

	_, err := session.GradeDirectory(context.Background(), dir, "hw")
	require.NoError(t, err)

	summary := session.Summary()
	require.Equal(t, 1, summary.TotalGraded)
	require.Equal(t, 80.0, summary.AverageScore)
	require.Equal(t, 0, summary.FlaggedCount)
	require.Equal(t, 0.9, summary.AvgConfidence)
	require.Len(t, session.Results(), 1)

	session.Reset()
	require.Empty(t, session.Results())
	require.Equal(t, Summary{}, session.Summary())
}
