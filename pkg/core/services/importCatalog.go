package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/pkg/db"
)

// ImportResult reports how many units were read and written by an import
type ImportResult struct {
	Read    int
	Written int
}

// ImportCatalog copies every unit of source into target, inserting new names and
// updating existing ones
func ImportCatalog(ctx context.Context, source db.CatalogStore, target db.CatalogWriter, logger *zap.Logger) (*ImportResult, error) {
	units, err := source.ListCourseUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source catalog: %w", err)
	}
	if len(units) == 0 {
		return nil, errors.New("source catalog has no course units")
	}

	logger.Debug("Importing course units", zap.Int("count", len(units)))

	written, err := target.UpsertCourseUnits(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("failed to write course units: %w", err)
	}

	logger.Info("Imported course catalog", zap.Int("read", len(units)), zap.Int("written", written))

	return &ImportResult{
		Read:    len(units),
		Written: written,
	}, nil
}
