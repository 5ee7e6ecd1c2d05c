package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/internal/config"
	"github.com/jakechorley/spec-table/pkg/core/allocator"
	"github.com/jakechorley/spec-table/pkg/core/categories"
	"github.com/jakechorley/spec-table/pkg/core/model"
	"github.com/jakechorley/spec-table/pkg/db"
)

// SpecTableRequest selects the units of a table. Zero-valued header fields fall back
// to the report section of the configuration.
type SpecTableRequest struct {
	UnitNames []string

	TeacherName  string
	School       string
	Semester     int
	AcademicYear string
	ExamNumber   int

	// Now is the generation time; zero means time.Now()
	Now time.Time
}

// DetailRow is one line of the course details table
type DetailRow struct {
	Name                  string `json:"name"`
	Objectives            string `json:"objectives"`
	EvaluableCapabilities string `json:"evaluableCapabilities"`
	EvaluableKnowledge    string `json:"evaluableKnowledge"`
}

// CalculationRow is one line of the calculations table
type CalculationRow struct {
	Name       string    `json:"name"`
	Hours      float64   `json:"hours"`
	Percentage float64   `json:"percentage"`
	Score      float64   `json:"score"`
	Categories []float64 `json:"categories"`
}

// TotalsRow sums the calculation rows column by column
type TotalsRow struct {
	Hours      float64   `json:"hours"`
	Percentage float64   `json:"percentage"`
	Score      float64   `json:"score"`
	Categories []float64 `json:"categories"`
}

// Diagnostics describes how the rounding drift was handled
type Diagnostics struct {
	Method        allocator.Method `json:"method"`
	Drift         float64          `json:"drift"`
	CorrectedUnit string           `json:"correctedUnit,omitempty"`
	Residual      float64          `json:"residual"`
}

// SpecTable is a complete specification table for one exam
type SpecTable struct {
	ID          string                `json:"id"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Header      model.ReportHeader    `json:"header"`
	Title       string                `json:"title"`
	Target      float64               `json:"target"`
	Categories  []categories.Category `json:"categories"`
	Details     []DetailRow           `json:"details"`
	Rows        []CalculationRow      `json:"rows"`
	Totals      TotalsRow             `json:"totals"`

	// CategoryGaps is the column sum minus the configured total, per category
	CategoryGaps []float64   `json:"categoryGaps"`
	Diagnostics  Diagnostics `json:"diagnostics"`
}

// GenerateSpecTable builds the specification table for the selected units: scores
// proportional to hours, split across the assessment categories, with the header
// and totals rows
func GenerateSpecTable(ctx context.Context, store db.CatalogStore, cfg *config.Config, logger *zap.Logger, req SpecTableRequest) (*SpecTable, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	header, err := resolveHeader(cfg.Report, req, now)
	if err != nil {
		return nil, err
	}

	result, err := AllocateScores(ctx, store, cfg, logger, req.UnitNames)
	if err != nil {
		return nil, err
	}
	outcome := result.Outcome

	cats := cfg.Categories()
	breakdowns, err := categories.SplitAll(outcome.Scores(), cats, cfg.AllocatorConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to split scores into categories: %w", err)
	}

	table := &SpecTable{
		ID:          uuid.New().String(),
		GeneratedAt: now,
		Header:      header,
		Title:       header.Title(),
		Target:      cfg.Scoring.TargetTotal,
		Categories:  cats,
		Details:     make([]DetailRow, len(result.Selection)),
		Rows:        make([]CalculationRow, len(result.Selection)),
		Diagnostics: Diagnostics{
			Method:   outcome.Method,
			Drift:    outcome.Drift,
			Residual: outcome.Residual,
		},
	}
	if outcome.CorrectedIndex >= 0 {
		table.Diagnostics.CorrectedUnit = outcome.Shares[outcome.CorrectedIndex].ID
	}

	for i, unit := range result.Selection {
		share := outcome.Shares[i]
		table.Details[i] = DetailRow{
			Name:                  unit.Name,
			Objectives:            unit.Objectives,
			EvaluableCapabilities: unit.EvaluableCapabilities,
			EvaluableKnowledge:    unit.EvaluableKnowledge,
		}
		table.Rows[i] = CalculationRow{
			Name:       unit.Name,
			Hours:      unit.Hours,
			Percentage: share.Percentage,
			Score:      share.Score,
			Categories: breakdowns[i],
		}
		table.Totals.Percentage += share.Percentage
	}

	table.Totals.Hours = outcome.TotalHours
	table.Totals.Score = outcome.Total()
	table.Totals.Categories = categories.Sums(breakdowns, len(cats))
	table.CategoryGaps = categories.Gaps(table.Totals.Categories, cats)

	logger.Info("Generated specification table",
		zap.String("id", table.ID),
		zap.Int("units", len(table.Rows)),
		zap.Float64("drift", table.Diagnostics.Drift),
		zap.Float64("residual", table.Diagnostics.Residual))

	for i, gap := range table.CategoryGaps {
		if gap != 0 {
			logger.Debug("Category column does not add up to its total",
				zap.String("category", cats[i].Key),
				zap.Float64("sum", table.Totals.Categories[i]),
				zap.Float64("total", cats[i].Total))
		}
	}

	return table, nil
}

// resolveHeader merges the request over the configured defaults and checks the result
func resolveHeader(defaults config.ReportConfig, req SpecTableRequest, now time.Time) (model.ReportHeader, error) {
	header := model.ReportHeader{
		TeacherName:  defaults.TeacherName,
		School:       defaults.School,
		Semester:     defaults.Semester,
		AcademicYear: defaults.AcademicYear,
		ExamNumber:   defaults.ExamNumber,
	}

	if req.TeacherName != "" {
		header.TeacherName = req.TeacherName
	}
	if req.School != "" {
		header.School = req.School
	}
	if req.Semester != 0 {
		header.Semester = req.Semester
	}
	if req.AcademicYear != "" {
		header.AcademicYear = req.AcademicYear
	}
	if req.ExamNumber != 0 {
		header.ExamNumber = req.ExamNumber
	}
	if header.AcademicYear == "" {
		header.AcademicYear = model.DefaultAcademicYear(now)
	}

	if header.Semester < 1 || header.Semester > 4 {
		return header, allocator.InvalidInput("semester must be between 1 and 4, got %d", header.Semester)
	}
	if header.ExamNumber < 1 {
		return header, allocator.InvalidInput("exam number must be at least 1, got %d", header.ExamNumber)
	}
	if !config.IsAcademicYear(header.AcademicYear) {
		return header, allocator.InvalidInput("academic year must look like 2025-2026, got %q", header.AcademicYear)
	}

	return header, nil
}
