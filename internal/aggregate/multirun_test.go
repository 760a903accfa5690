package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campusml/nbgrade/internal/grader"
	"github.com/campusml/nbgrade/internal/notebook"
	"github.com/campusml/nbgrade/internal/rubric"
	"github.com/campusml/nbgrade/pkg/ai"
)

const multiRunRubricYAML = `part_1:
  total_points: 10
  problem_statement: Basics
  criteria:
    correctness:
      points: 10
`

const multiRunNotebook = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": "## Part 1: Basics"},
    {"cell_type": "code", "metadata": {"tags": ["code answer"]}, "source": "print(1 + 1)"}
  ]
}`

type scriptedCompleter struct{ reply string }

func (s scriptedCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return s.reply, nil
}

func (scriptedCompleter) ModelName() string { return "scripted" }

func multiRunFixture(t *testing.T) (string, SessionFactory) {
	t.Helper()

	rubricsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rubricsDir, "hw.yaml"), []byte(multiRunRubricYAML), 0o644))

	notebooksDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(notebooksDir, "Alice_Smith.ipynb"), []byte(multiRunNotebook), 0o644))

	// Each run scores differently so aggregation has something to average.
	replies := map[string]string{
		"low":  `{"scores": {"correctness": 6}, "total_score": 6, "confidence": 0.8}`,
		"high": `{"scores": {"correctness": 8}, "total_score": 8, "confidence": 0.9}`,
	}

	factory := func(cfg RunConfig) (*grader.Session, error) {
		reply, ok := replies[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("unknown run %q", cfg.Name)
		}

		var completer ai.Completer = scriptedCompleter{reply: reply}
		validate := validator.New(validator.WithRequiredStructEnabled())
		store := rubric.NewStore(rubricsDir, validate, zerolog.Nop())
		parser := notebook.NewParser(zerolog.Nop())
		return grader.NewSession(parser, store, grader.NewGrader(completer, 1500, zerolog.Nop()), zerolog.Nop()), nil
	}

	return notebooksDir, factory
}

func TestMultiRunAggregatesAcrossRuns(t *testing.T) {
	dir, factory := multiRunFixture(t)
	runs := []RunConfig{
		{Name: "low", Provider: "mock"},
		{Name: "high", Provider: "mock"},
	}

	multi := NewMultiRun(runs, factory, 0, DefaultVarianceThreshold, zerolog.Nop())
	results, err := multi.GradeDirectory(context.Background(), dir, "hw")
	require.NoError(t, err)

	require.Len(t, results, 1)
	result := results[0]
	require.Equal(t, "Alice Smith", result.StudentID)
	require.Equal(t, "part_1", result.ProblemID)
	require.Equal(t, 7.0, result.TotalScore)
	require.Equal(t, 70.0, result.Percentage)
	require.InDelta(t, 0.85, result.Confidence, 0.001)
	require.False(t, result.FlaggedForReview)
}

func TestMultiRunSkipsFailedRuns(t *testing.T) {
	dir, factory := multiRunFixture(t)
	runs := []RunConfig{
		{Name: "unknown", Provider: "mock"},
		{Name: "high", Provider: "mock"},
	}

	multi := NewMultiRun(runs, factory, 0, DefaultVarianceThreshold, zerolog.Nop())
	results, err := multi.GradeDirectory(context.Background(), dir, "hw")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 8.0, results[0].TotalScore)
}

func TestMultiRunRequiresOneSuccess(t *testing.T) {
	dir, factory := multiRunFixture(t)
	runs := []RunConfig{{Name: "unknown", Provider: "mock"}}

	multi := NewMultiRun(runs, factory, 0, DefaultVarianceThreshold, zerolog.Nop())
	_, err := multi.GradeDirectory(context.Background(), dir, "hw")
	require.ErrorIs(t, err, ErrAllRunsFailed)
}

func TestMultiRunRequiresRuns(t *testing.T) {
	multi := NewMultiRun(nil, nil, 0, DefaultVarianceThreshold, zerolog.Nop())
	_, err := multi.GradeDirectory(context.Background(), t.TempDir(), "hw")
	require.ErrorIs(t, err, ErrNoRuns)
}
