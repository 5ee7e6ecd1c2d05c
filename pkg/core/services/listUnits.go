package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/pkg/core/model"
	"github.com/jakechorley/spec-table/pkg/db"
)

// ListCourseUnits returns every catalog unit in catalog order
func ListCourseUnits(ctx context.Context, store db.CatalogStore, logger *zap.Logger) ([]model.CourseUnit, error) {
	records, err := store.ListCourseUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course units: %w", err)
	}

	logger.Debug("Listed course units", zap.Int("count", len(records)))

	units := make([]model.CourseUnit, len(records))
	for i, record := range records {
		units[i] = record.ToModel()
	}
	return units, nil
}
