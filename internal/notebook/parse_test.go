package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const sampleNotebook = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["## Part 1: Exploration\n"]},
    {"cell_type": "code", "metadata": {"tags": ["code answer"]}, "source": ["print(1 + 1)"], "outputs": [
      {"output_type": "execute_result", "data": {"text/plain": ["2"]}}
    ]},
    {"cell_type": "markdown", "metadata": {"tags": ["text answer"]}, "source": "**Answer:** the sum is two, as the execution result confirms."}
  ]
}`

func TestReadFlattensSourceLists(t *testing.T) {
	nb, err := Read(strings.NewReader(sampleNotebook))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 3)

	require.Equal(t, "## Part 1: Exploration\n", nb.Cells[0].Source.String())
	require.Equal(t, "print(1 + 1)", nb.Cells[1].Source.String())
	require.Equal(t, "**Answer:** the sum is two, as the execution result confirms.", nb.Cells[2].Source.String())

	for i, cell := range nb.Cells {
		require.Equal(t, i, cell.Index)
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode notebook")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Jane_Doe.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(sampleNotebook), 0o644))

	parser := NewParser(zerolog.Nop())
	parsed, err := parser.ParseFile(path)
	require.NoError(t, err)

	require.Equal(t, "Jane Doe", parsed.StudentName)
	require.Equal(t, 3, parsed.TotalCells)
	require.Len(t, parsed.Boundaries, 1)
	require.Len(t, parsed.Responses, 1)

	response := parsed.Responses[0]
	require.Equal(t, "part_1", response.ProblemID)
	require.Contains(t, response.Content, "[CODE CELL]\nprint(1 + 1)")
	require.Contains(t, response.ExecutionOutput, "[EXECUTION RESULT 1]\n2")
	require.False(t, response.HasErrors)
}

func TestParseFileMissing(t *testing.T) {
	parser := NewParser(zerolog.Nop())
	_, err := parser.ParseFile(filepath.Join(t.TempDir(), "absent.ipynb"))
	require.Error(t, err)
}

func TestStudentNameFromPath(t *testing.T) {
	require.Equal(t, "Jane Doe", StudentNameFromPath("/submissions/Jane_Doe.ipynb"))
	require.Equal(t, "hw3 final", StudentNameFromPath("hw3_final.ipynb"))
	require.Equal(t, "plain", StudentNameFromPath("plain"))
}
