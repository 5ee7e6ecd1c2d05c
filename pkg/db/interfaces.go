package db

import "context"

// CatalogStore defines the read operations on a course catalog.
// The file, Postgres and Sheets catalogs all implement this interface.
type CatalogStore interface {
	// ListCourseUnits returns every unit in catalog order
	ListCourseUnits(ctx context.Context) ([]CourseUnit, error)

	// GetCourseUnits returns the units whose names are listed, in catalog order.
	// Unknown names are absent from the result rather than an error.
	GetCourseUnits(ctx context.Context, names []string) ([]CourseUnit, error)
}

// CatalogWriter is implemented by catalogs that can be imported into
type CatalogWriter interface {
	UpsertCourseUnits(ctx context.Context, units []CourseUnit) (int, error)
}
