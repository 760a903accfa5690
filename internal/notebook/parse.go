package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusml/nbgrade/internal/models"
)

// Parsed is the structured view of one student notebook: detected problem
// boundaries plus the assembled responses ready for grading.
type Parsed struct {
	StudentName string
	Path        string
	Boundaries  []models.ProblemBoundary
	Responses   []models.StudentResponse
	TotalCells  int
}

// Parser turns notebook files into problem-scoped student responses.
type Parser struct {
	logger zerolog.Logger
}

// NewParser constructs a parser with the given logger.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{
		logger: logger.With().Str("component", "notebook_parser").Logger(),
	}
}

// ParseFile reads a notebook file and extracts its student responses.
func (p *Parser) ParseFile(path string) (Parsed, error) {
	nb, err := ReadFile(path)
	if err != nil {
		return Parsed{}, err
	}

	boundaries := IdentifyProblems(nb.Cells)
	responses := ExtractResponses(nb.Cells, boundaries)

	p.logger.Debug().
		Str("path", path).
		Int("cells", len(nb.Cells)).
		Int("boundaries", len(boundaries)).
		Int("responses", len(responses)).
		Msg("parsed notebook")

	return Parsed{
		StudentName: StudentNameFromPath(path),
		Path:        path,
		Boundaries:  boundaries,
		Responses:   responses,
		TotalCells:  len(nb.Cells),
	}, nil
}

// Read decodes a notebook JSON document and assigns cell ordinals.
func Read(r io.Reader) (models.Notebook, error) {
	var nb models.Notebook
	if err := json.NewDecoder(r).Decode(&nb); err != nil {
		return models.Notebook{}, fmt.Errorf("decode notebook: %w", err)
	}

	for i := range nb.Cells {
		nb.Cells[i].Index = i
	}

	return nb, nil
}

// ReadFile opens and decodes a notebook file.
func ReadFile(path string) (models.Notebook, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Notebook{}, fmt.Errorf("open notebook: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// StudentNameFromPath derives the student name from a notebook filename:
// the extension is dropped and underscores become spaces.
func StudentNameFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".ipynb")
	return strings.ReplaceAll(name, "_", " ")
}
