package rubric

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/campusml/nbgrade/internal/models"
)

// criterionFile and problemFile mirror the on-disk rubric YAML layout.
type criterionFile struct {
	Points      int    `yaml:"points"`
	Description string `yaml:"description"`
	Guidelines  string `yaml:"guidelines"`
}

type problemFile struct {
	TotalPoints          int                      `yaml:"total_points"`
	ProblemStatement     string                   `yaml:"problem_statement"`
	ExpectedResponseType string                   `yaml:"expected_response_type"`
	Context              string                   `yaml:"context"`
	Criteria             map[string]criterionFile `yaml:"criteria"`
}

// Store loads per-assignment rubrics from a directory of YAML files and
// caches them for the lifetime of the store. Cache lifetime is therefore an
// explicit property of whoever constructs the store, not a process global.
type Store struct {
	dir      string
	logger   zerolog.Logger
	validate *validator.Validate
	cache    map[string]map[string]models.ProblemRubric
}

// NewStore constructs a rubric store rooted at dir.
func NewStore(dir string, validate *validator.Validate, logger zerolog.Logger) *Store {
	return &Store{
		dir:      dir,
		logger:   logger.With().Str("component", "rubric_store").Logger(),
		validate: validate,
		cache:    make(map[string]map[string]models.ProblemRubric),
	}
}

// Load returns the problem-id to rubric mapping for an assignment. Repeated
// calls for the same assignment return the cached objects. A missing rubric
// file is synthesized from the documented default so grading is never blocked
// by absent configuration.
func (s *Store) Load(assignmentID string) (map[string]models.ProblemRubric, error) {
	if cached, ok := s.cache[assignmentID]; ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, assignmentID+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.logger.Warn().Str("assignment", assignmentID).Str("path", path).Msg("rubric file missing, writing default rubric")
		if err := s.writeDefault(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric %s: %w", path, err)
	}

	rubrics, err := s.parse(assignmentID, data)
	if err != nil {
		return nil, err
	}

	s.cache[assignmentID] = rubrics
	return rubrics, nil
}

// Reset drops all cached rubrics, forcing the next Load to re-read from disk.
func (s *Store) Reset() {
	s.cache = make(map[string]map[string]models.ProblemRubric)
}

func (s *Store) parse(assignmentID string, data []byte) (map[string]models.ProblemRubric, error) {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parse rubric yaml: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("rubric %s failed schema validation: %w", assignmentID, err)
	}

	var file map[string]problemFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rubric yaml: %w", err)
	}

	rubrics := make(map[string]models.ProblemRubric, len(file))
	for problemID, entry := range file {
		rubric := models.ProblemRubric{
			ProblemID:            problemID,
			TotalPoints:          entry.TotalPoints,
			Criteria:             sortedCriteria(entry.Criteria),
			ProblemStatement:     entry.ProblemStatement,
			ExpectedResponseType: entry.ExpectedResponseType,
			Context:              entry.Context,
		}

		for _, crit := range rubric.Criteria {
			if err := s.validate.Struct(crit); err != nil {
				return nil, fmt.Errorf("rubric %s criterion %q invalid: %w", assignmentID, crit.Name, err)
			}
		}

		// A declared total that disagrees with the criteria sum would skew
		// every percentage downstream; the criteria are the source of truth.
		if sum := rubric.CriteriaPoints(); sum != rubric.TotalPoints {
			s.logger.Warn().
				Str("assignment", assignmentID).
				Str("problem", problemID).
				Int("declared_total", rubric.TotalPoints).
				Int("criteria_sum", sum).
				Msg("rubric total does not match criteria sum, normalizing to criteria sum")
			rubric.TotalPoints = sum
		}

		rubrics[problemID] = rubric
	}

	return rubrics, nil
}

func (s *Store) writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rubrics directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultRubricYAML), 0o644); err != nil {
		return fmt.Errorf("write default rubric: %w", err)
	}
	return nil
}

// sortedCriteria flattens the criteria mapping into a deterministic order:
// heavier criteria first, ties broken by name.
func sortedCriteria(criteria map[string]criterionFile) []models.GradingCriterion {
	out := make([]models.GradingCriterion, 0, len(criteria))
	for name, crit := range criteria {
		out = append(out, models.GradingCriterion{
			Name:        name,
			MaxPoints:   crit.Points,
			Description: crit.Description,
			Guidelines:  crit.Guidelines,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxPoints != out[j].MaxPoints {
			return out[i].MaxPoints > out[j].MaxPoints
		}
		return out[i].Name < out[j].Name
	})

	return out
}
