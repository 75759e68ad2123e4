package gradebook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/grader/logger"
)

// Report is everything a run hands to the reporting layer.
type Report struct {
	RunID    uuid.UUID `json:"run_id"`
	Source   string    `json:"source"`
	Rubric   Rubric    `json:"rubric"`
	Students int       `json:"students"`
	Results  ResultSet `json:"results"`
	Summary  Summary   `json:"summary"`
	Elapsed  string    `json:"elapsed"`
}

// Run grades the gradebook at path. The first fatal error stops the run;
// record-level errors are collected in the report.
func Run(ctx context.Context, path string, opts Options) (*Report, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return RunSource(ctx, src, opts)
}

func RunBody(ctx context.Context, name string, body []byte, opts Options) (*Report, error) {
	src, err := Open(name, body)
	if err != nil {
		return nil, err
	}
	return RunSource(ctx, src, opts)
}

func RunSource(ctx context.Context, src *Source, opts Options) (*Report, error) {
	start := time.Now()
	opts = opts.withDefaults()
	runID := uuid.New()
	ctx = logger.WithRunID(ctx, runID.String())
	log := logger.FromContext(ctx).With("source", src.Name)
	opts.log = log

	if err := opts.Bands.Validate(); err != nil {
		log.Error("band table is inconsistent", "error", err)
		return nil, fmt.Errorf("invalid band table: %w", err)
	}

	rubric, cursor, err := ParseRubric(src, opts)
	if err != nil {
		log.Warn("rubric rejected", "error", err)
		return nil, fmt.Errorf("error parsing rubric: %w", err)
	}
	log.Info("rubric parsed", "categories", rubric.Categories(), "student_line", cursor.Line+1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	students, err := CountStudents(src, cursor, opts)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	records, err := ParseStudents(src, cursor, rubric, opts)
	if err != nil {
		log.Warn("student parsing failed", "error", err)
		return nil, fmt.Errorf("error parsing students: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := GradeAll(rubric, records, opts.Bands)
	if err != nil {
		log.Error("grading aborted", "error", err)
		return nil, fmt.Errorf("error grading students: %w", err)
	}

	summary := results.Summary()
	log.Info("gradebook graded",
		"graded", summary.Graded,
		"withdrawn", summary.Withdrawn,
		"errored", summary.Errored)

	return &Report{
		RunID:    runID,
		Source:   src.Name,
		Rubric:   rubric,
		Students: students,
		Results:  results,
		Summary:  summary,
		Elapsed:  time.Since(start).String(),
	}, nil
}
