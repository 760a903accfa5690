package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/campusml/nbgrade/internal/aggregate"
	"github.com/campusml/nbgrade/internal/config"
	"github.com/campusml/nbgrade/internal/grader"
	"github.com/campusml/nbgrade/internal/models"
	"github.com/campusml/nbgrade/internal/notebook"
	"github.com/campusml/nbgrade/internal/reports"
	"github.com/campusml/nbgrade/internal/rubric"
	"github.com/campusml/nbgrade/pkg/ai"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: grader <notebook_directory> <assignment_id>")
		os.Exit(1)
	}
	notebookDir, assignmentID := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	validate := validator.New(validator.WithRequiredStructEnabled())

	parser := notebook.NewParser(logger)
	store := rubric.NewStore(cfg.RubricsDir, validate, logger)
	writer := reports.NewWriter(logger)

	ctx := context.Background()

	var results []models.GradingResult
	if runsPath := os.Getenv("NBGRADE_RUNS_CONFIG"); runsPath != "" {
		results, err = gradeMultiRun(ctx, cfg, runsPath, parser, store, logger, validate, notebookDir, assignmentID)
	} else {
		results, err = gradeSingleRun(ctx, cfg, parser, store, logger, notebookDir, assignmentID)
	}
	if err != nil {
		log.Fatalf("grading failed: %v", err)
	}

	outputDir := filepath.Join(notebookDir, cfg.OutputDir)
	if err := writer.Export(outputDir, results); err != nil {
		log.Fatalf("failed to export reports: %v", err)
	}

	if err := exportCompletionReports(writer, notebookDir, outputDir, logger); err != nil {
		log.Fatalf("failed to export completion reports: %v", err)
	}

	logger.Info().Int("results", len(results)).Str("output", outputDir).Msg("grading complete")
}

func gradeSingleRun(ctx context.Context, cfg config.Config, parser *notebook.Parser, store *rubric.Store, logger zerolog.Logger, dir, assignmentID string) ([]models.GradingResult, error) {
	completer := ai.New(ai.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKeyFor(cfg.Provider),
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Logger:      logger,
	})

	session := grader.NewSession(parser, store, grader.NewGrader(completer, cfg.MaxTokens, logger), logger)
	if _, err := session.GradeDirectory(ctx, dir, assignmentID); err != nil {
		return nil, err
	}

	summary := session.Summary()
	logger.Info().
		Int("graded", summary.TotalGraded).
		Float64("average_pct", summary.AverageScore).
		Int("flagged", summary.FlaggedCount).
		Msg("grading summary")

	return session.Results(), nil
}

func gradeMultiRun(ctx context.Context, cfg config.Config, runsPath string, parser *notebook.Parser, store *rubric.Store, logger zerolog.Logger, validate *validator.Validate, dir, assignmentID string) ([]models.GradingResult, error) {
	runs, err := loadRunConfigs(runsPath, validate)
	if err != nil {
		return nil, err
	}

	factory := func(runCfg aggregate.RunConfig) (*grader.Session, error) {
		completer := ai.New(ai.Config{
			Provider:    runCfg.Provider,
			APIKey:      cfg.APIKeyFor(runCfg.Provider),
			Model:       runCfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: runCfg.Temperature,
			Logger:      logger,
		})
		return grader.NewSession(parser, store, grader.NewGrader(completer, cfg.MaxTokens, logger), logger), nil
	}

	multi := aggregate.NewMultiRun(runs, factory, cfg.InterRunPause, cfg.VarianceThreshold, logger)
	return multi.GradeDirectory(ctx, dir, assignmentID)
}

func loadRunConfigs(path string, validate *validator.Validate) ([]aggregate.RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read runs config: %w", err)
	}

	var file struct {
		Runs []aggregate.RunConfig `yaml:"runs"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse runs config: %w", err)
	}
	if len(file.Runs) == 0 {
		return nil, fmt.Errorf("runs config %s defines no runs", path)
	}

	for _, run := range file.Runs {
		if err := validate.Struct(run); err != nil {
			return nil, fmt.Errorf("invalid run config %q: %w", run.Name, err)
		}
	}

	return file.Runs, nil
}

func exportCompletionReports(writer *reports.Writer, notebookDir, outputDir string, logger zerolog.Logger) error {
	entries, err := os.ReadDir(notebookDir)
	if err != nil {
		return err
	}

	var completionReports []models.CompletionReport
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ipynb") {
			continue
		}

		path := filepath.Join(notebookDir, entry.Name())
		nb, err := notebook.ReadFile(path)
		if err != nil {
			logger.Error().Err(err).Str("notebook", entry.Name()).Msg("skipping unreadable notebook in completion pass")
			continue
		}

		report := notebook.BuildCompletionReport(nb, notebook.StudentNameFromPath(path))
		completionReports = append(completionReports, report)

		if _, err := writer.WriteMissingAnswersReport(filepath.Join(outputDir, "individual_reports"), report); err != nil {
			return err
		}
	}

	if len(completionReports) == 0 {
		return nil
	}
	return writer.WriteCompletionCSV(filepath.Join(outputDir, "completion_results.csv"), completionReports)
}
