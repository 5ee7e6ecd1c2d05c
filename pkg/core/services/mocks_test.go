package services

import (
	"context"

	"github.com/jakechorley/spec-table/internal/config"
	"github.com/jakechorley/spec-table/pkg/db"
)

// mockCatalogStore implements db.CatalogStore over an in-memory slice
type mockCatalogStore struct {
	units []db.CourseUnit
	err   error

	requestedNames []string
}

func (m *mockCatalogStore) ListCourseUnits(ctx context.Context) ([]db.CourseUnit, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.units, nil
}

func (m *mockCatalogStore) GetCourseUnits(ctx context.Context, names []string) ([]db.CourseUnit, error) {
	m.requestedNames = names
	if m.err != nil {
		return nil, m.err
	}
	return db.FilterByName(m.units, names), nil
}

// mockCatalogWriter implements db.CatalogWriter
type mockCatalogWriter struct {
	upserted []db.CourseUnit
	err      error
}

func (m *mockCatalogWriter) UpsertCourseUnits(ctx context.Context, units []db.CourseUnit) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.upserted = append(m.upserted, units...)
	return len(units), nil
}

func testCatalog() *mockCatalogStore {
	return &mockCatalogStore{
		units: []db.CourseUnit{
			{Name: "Algèbre", Hours: 3, Objectives: "Résoudre des équations", EvaluableCapabilities: "Factoriser", EvaluableKnowledge: "Identités remarquables"},
			{Name: "Géométrie", Hours: 5, Objectives: "Construire des figures"},
			{Name: "Statistiques", Hours: 2},
			{Name: "Probabilités", Hours: 3},
			{Name: "Fonctions", Hours: 3},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{Source: config.SourceFile, Path: "courses2AC.json"},
		Scoring: config.ScoringConfig{
			TargetTotal:   20,
			Granularity:   0.25,
			Rounding:      "halfEven",
			Apportionment: "singlePass",
			Categories: []config.CategoryConfig{
				{Key: "recall", Label: "Questions de cours", Total: 8},
				{Key: "applied", Label: "Application des connaissances", Total: 8},
				{Key: "problem", Label: "Situation-problème", Total: 4},
			},
		},
		Report: config.ReportConfig{
			TeacherName: "Mme Diallo",
			School:      "Lycée Moulay Idriss",
			Semester:    2,
			ExamNumber:  1,
		},
	}
}
