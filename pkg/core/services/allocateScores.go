package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/internal/config"
	"github.com/jakechorley/spec-table/pkg/core/allocator"
	"github.com/jakechorley/spec-table/pkg/core/model"
	"github.com/jakechorley/spec-table/pkg/db"
)

// ErrUnitNotFound is returned when a selected name has no unit in the catalog
var ErrUnitNotFound = errors.New("course unit not found")

// AllocationResult pairs the resolved selection with its allocation
type AllocationResult struct {
	Selection model.Selection
	Outcome   *allocator.AllocationOutcome
}

// AllocateScores resolves the named units from the catalog and allocates the target
// total across them. The allocation runs in catalog order so the scores depend only on
// which units are selected; the result is then listed in the order the names were given.
func AllocateScores(ctx context.Context, store db.CatalogStore, cfg *config.Config, logger *zap.Logger, names []string) (*AllocationResult, error) {
	selection, catalogOrder, err := resolveSelection(ctx, store, logger, names)
	if err != nil {
		return nil, err
	}

	units := make([]allocator.Unit, len(catalogOrder))
	for i, unit := range catalogOrder {
		units[i] = allocator.Unit{ID: unit.Name, Hours: unit.Hours}
	}

	outcome, err := allocator.Allocate(units, cfg.AllocatorConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate scores: %w", err)
	}
	outcome = reorderOutcome(outcome, selection.Names())

	fields := []zap.Field{
		zap.Int("units", len(units)),
		zap.Float64("total_hours", catalogOrder.TotalHours()),
		zap.String("method", string(outcome.Method)),
		zap.Float64("drift", outcome.Drift),
		zap.Float64("residual", outcome.Residual),
	}
	if outcome.CorrectedIndex >= 0 {
		fields = append(fields, zap.String("corrected_unit", outcome.Shares[outcome.CorrectedIndex].ID))
	}
	logger.Debug("Allocated scores", fields...)

	if outcome.Residual != 0 {
		logger.Warn("Scores do not add up to the target total",
			zap.Float64("target", cfg.Scoring.TargetTotal),
			zap.Float64("residual", outcome.Residual))
	}

	return &AllocationResult{
		Selection: selection,
		Outcome:   outcome,
	}, nil
}

// resolveSelection validates the names and fetches the units. It returns them both in
// the order listed and in catalog order. Either every name resolves or the whole
// selection fails.
func resolveSelection(ctx context.Context, store db.CatalogStore, logger *zap.Logger, names []string) (model.Selection, model.Selection, error) {
	if len(names) == 0 {
		return nil, nil, allocator.InvalidInput("select at least one course unit")
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, nil, allocator.InvalidInput("course unit names cannot be blank")
		}
		if seen[name] {
			return nil, nil, allocator.InvalidInput("course unit %q is selected more than once", name)
		}
		seen[name] = true
	}

	logger.Debug("Fetching selected course units", zap.Strings("names", names))

	records, err := store.GetCourseUnits(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch course units: %w", err)
	}

	if missing := db.MissingNames(records, names); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnitNotFound, quoteAll(missing))
	}

	byName := make(map[string]db.CourseUnit, len(records))
	catalogOrder := make(model.Selection, len(records))
	for i, record := range records {
		byName[record.Name] = record
		catalogOrder[i] = record.ToModel()
	}

	selection := make(model.Selection, len(names))
	for i, name := range names {
		selection[i] = byName[name].ToModel()
	}

	return selection, catalogOrder, nil
}

// reorderOutcome lists the shares of outcome in the order of ids, keeping the
// corrected unit pointing at the same share
func reorderOutcome(outcome *allocator.AllocationOutcome, ids []string) *allocator.AllocationOutcome {
	byID := make(map[string]allocator.Share, len(outcome.Shares))
	for _, share := range outcome.Shares {
		byID[share.ID] = share
	}

	corrected := ""
	if outcome.CorrectedIndex >= 0 {
		corrected = outcome.Shares[outcome.CorrectedIndex].ID
	}

	reordered := *outcome
	reordered.Shares = make([]allocator.Share, len(ids))
	reordered.CorrectedIndex = -1
	for i, id := range ids {
		reordered.Shares[i] = byID[id]
		if id == corrected {
			reordered.CorrectedIndex = i
		}
	}
	return &reordered
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}
