package models

import (
	"encoding/json"
	"strings"
)

// Cell kinds as stored in the notebook JSON.
const (
	CellKindCode     = "code"
	CellKindMarkdown = "markdown"
)

// Notebook output types as declared by the execution kernel.
const (
	OutputTypeStream        = "stream"
	OutputTypeDisplayData   = "display_data"
	OutputTypeExecuteResult = "execute_result"
	OutputTypeError         = "error"
)

// MIME types carried in rich output data bundles.
const (
	MimePlainText = "text/plain"
	MimeHTML      = "text/html"
	MimePNG       = "image/png"
	MimeJPEG      = "image/jpeg"
	MimeSVG       = "image/svg+xml"
)

// SourceText holds notebook source or output text, which the nbformat JSON
// encodes either as a single string or as a list of line strings.
type SourceText string

// UnmarshalJSON accepts both encodings and flattens line lists into one string.
// Payloads that are neither (e.g. application/json data bundles) are kept as
// their raw JSON text so nothing is silently dropped.
func (s *SourceText) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = SourceText(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = SourceText(strings.Join(lines, ""))
		return nil
	}

	*s = SourceText(data)
	return nil
}

// String returns the flattened text.
func (s SourceText) String() string {
	return string(s)
}

// CellMetadata carries the subset of cell metadata the grader inspects.
type CellMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// Output is a single captured execution result attached to a code cell.
type Output struct {
	Type   string                `json:"output_type"`
	Name   string                `json:"name,omitempty"`
	Text   SourceText            `json:"text,omitempty"`
	Data   map[string]SourceText `json:"data,omitempty"`
	EName  string                `json:"ename,omitempty"`
	EValue string                `json:"evalue,omitempty"`
}

// Cell is one notebook unit, immutable once parsed from the source notebook.
type Cell struct {
	Index    int          `json:"-"`
	Kind     string       `json:"cell_type"`
	Source   SourceText   `json:"source"`
	Metadata CellMetadata `json:"metadata"`
	Outputs  []Output     `json:"outputs,omitempty"`
}

// IsCode reports whether the cell is a code cell.
func (c Cell) IsCode() bool {
	return c.Kind == CellKindCode
}

// IsMarkdown reports whether the cell is a markdown cell.
func (c Cell) IsMarkdown() bool {
	return c.Kind == CellKindMarkdown
}

// HasAnyTag reports whether the cell carries at least one of the given tags.
func (c Cell) HasAnyTag(tags ...string) bool {
	for _, want := range tags {
		for _, have := range c.Metadata.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Notebook is the decoded structure of one .ipynb file.
type Notebook struct {
	Cells         []Cell `json:"cells"`
	NBFormat      int    `json:"nbformat"`
	NBFormatMinor int    `json:"nbformat_minor"`
}
