package aggregate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusml/nbgrade/internal/grader"
	"github.com/campusml/nbgrade/internal/models"
)

var (
	// ErrNoRuns is returned when a multi-run grader is started without any
	// configured runs.
	ErrNoRuns = errors.New("no runs configured")
	// ErrAllRunsFailed is returned when every configured run failed.
	ErrAllRunsFailed = errors.New("no successful grading runs")
)

// RunConfig describes one grading run in a multi-run pass: which model grades
// and at what temperature.
type RunConfig struct {
	Name        string  `yaml:"name" validate:"required"`
	Provider    string  `yaml:"provider" validate:"required"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Run holds the outcome of one completed grading run.
type Run struct {
	ID      string
	Name    string
	Model   string
	Results []models.GradingResult
}

// SessionFactory builds a fresh grading session for one run configuration.
// Each run gets its own session so per-run state never bleeds across models.
type SessionFactory func(cfg RunConfig) (*grader.Session, error)

// MultiRun grades the same notebooks once per configured model and merges the
// per-run results. Runs execute strictly in sequence with a fixed pause in
// between to stay under upstream rate limits; there is no parallel fan-out.
type MultiRun struct {
	runs              []RunConfig
	factory           SessionFactory
	pause             time.Duration
	varianceThreshold float64
	logger            zerolog.Logger
}

// NewMultiRun constructs a multi-run grader over the given run configurations.
func NewMultiRun(runs []RunConfig, factory SessionFactory, pause time.Duration, varianceThreshold float64, logger zerolog.Logger) *MultiRun {
	if varianceThreshold <= 0 {
		varianceThreshold = DefaultVarianceThreshold
	}
	return &MultiRun{
		runs:              runs,
		factory:           factory,
		pause:             pause,
		varianceThreshold: varianceThreshold,
		logger:            logger.With().Str("component", "multi_run").Logger(),
	}
}

// GradeDirectory executes every configured run over the directory and returns
// the aggregated results. A failed run is logged and skipped; at least one
// run must succeed.
func (m *MultiRun) GradeDirectory(ctx context.Context, dir, assignmentID string) ([]models.GradingResult, error) {
	if len(m.runs) == 0 {
		return nil, ErrNoRuns
	}

	var completed []Run

	for i, runCfg := range m.runs {
		runID := uuid.NewString()
		runLogger := m.logger.With().Str("run_id", runID).Str("run", runCfg.Name).Logger()
		runLogger.Info().Str("provider", runCfg.Provider).Str("model", runCfg.Model).Msgf("starting run %d/%d", i+1, len(m.runs))

		session, err := m.factory(runCfg)
		if err != nil {
			runLogger.Error().Err(err).Msg("failed to build session for run, skipping")
			continue
		}

		if _, err := session.GradeDirectory(ctx, dir, assignmentID); err != nil {
			runLogger.Error().Err(err).Msg("run failed, skipping")
			continue
		}

		results := session.Results()
		runLogger.Info().Int("results", len(results)).Msg("run completed")
		completed = append(completed, Run{
			ID:      runID,
			Name:    runCfg.Name,
			Model:   runCfg.Model,
			Results: results,
		})

		if i+1 < len(m.runs) && m.pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.pause):
			}
		}
	}

	if len(completed) == 0 {
		return nil, ErrAllRunsFailed
	}

	var all []models.GradingResult
	for _, run := range completed {
		all = append(all, run.Results...)
	}

	m.logger.Info().Int("runs", len(completed)).Int("results", len(all)).Msg("aggregating run results")
	return Aggregate(all, m.varianceThreshold), nil
}
