package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/spec-table/pkg/core/allocator"
	"github.com/jakechorley/spec-table/pkg/core/categories"
)

func validConfig() *Config {
	cfg := &Config{
		Catalog: CatalogConfig{Source: SourceFile, Path: "courses2AC.json"},
		Report: ReportConfig{
			TeacherName:  "Mme Diallo",
			School:       "Lycée Moulay Idriss",
			Semester:     2,
			AcademicYear: "2025-2026",
			ExamNumber:   1,
		},
	}
	applyDefaults(cfg)
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec_table_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, SourceFile, cfg.Catalog.Source)
	assert.Equal(t, 20.0, cfg.Scoring.TargetTotal)
	assert.Equal(t, 0.25, cfg.Scoring.Granularity)
	assert.Equal(t, "halfEven", cfg.Scoring.Rounding)
	assert.Equal(t, "singlePass", cfg.Scoring.Apportionment)
	require.Len(t, cfg.Scoring.Categories, 3)
	assert.Equal(t, CategoryConfig{Key: "recall", Label: "Questions de cours", Total: 8}, cfg.Scoring.Categories[0])
	assert.Equal(t, 2, cfg.Report.Semester)
	assert.Equal(t, 1, cfg.Report.ExamNumber)
	assert.Empty(t, cfg.Report.AcademicYear)
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "unknown source",
			mutate:  func(cfg *Config) { cfg.Catalog.Source = "ftp" },
			wantErr: "validation failed",
		},
		{
			name:    "file source without path",
			mutate:  func(cfg *Config) { cfg.Catalog.Path = "" },
			wantErr: "Path",
		},
		{
			name:    "postgres source without url",
			mutate:  func(cfg *Config) { cfg.Catalog.Source = SourcePostgres },
			wantErr: "DatabaseURL",
		},
		{
			name: "sheets source without tab",
			mutate: func(cfg *Config) {
				cfg.Catalog.Source = SourceSheets
				cfg.Catalog.SheetID = "sheet123"
			},
			wantErr: "SheetTab",
		},
		{
			name:    "negative target",
			mutate:  func(cfg *Config) { cfg.Scoring.TargetTotal = -20 },
			wantErr: "TargetTotal",
		},
		{
			name:    "unknown rounding",
			mutate:  func(cfg *Config) { cfg.Scoring.Rounding = "bankers" },
			wantErr: "Rounding",
		},
		{
			name:    "unknown apportionment",
			mutate:  func(cfg *Config) { cfg.Scoring.Apportionment = "dhondt" },
			wantErr: "Apportionment",
		},
		{
			name:    "no categories",
			mutate:  func(cfg *Config) { cfg.Scoring.Categories = []CategoryConfig{} },
			wantErr: "Categories",
		},
		{
			name: "duplicate category keys",
			mutate: func(cfg *Config) {
				cfg.Scoring.Categories[1].Key = cfg.Scoring.Categories[0].Key
			},
			wantErr: "Categories",
		},
		{
			name:    "zero category total",
			mutate:  func(cfg *Config) { cfg.Scoring.Categories[2].Total = 0 },
			wantErr: "Total",
		},
		{
			name:    "category totals do not add up",
			mutate:  func(cfg *Config) { cfg.Scoring.Categories[2].Total = 5 },
			wantErr: "category totals sum to 21",
		},
		{
			name: "largest remainder off grid",
			mutate: func(cfg *Config) {
				cfg.Scoring.Apportionment = "largestRemainder"
				cfg.Scoring.TargetTotal = 10.1
				cfg.Scoring.Categories = []CategoryConfig{{Key: "all", Label: "Tout", Total: 10.1}}
			},
			wantErr: "multiple of granularity",
		},
		{
			name:    "semester out of range",
			mutate:  func(cfg *Config) { cfg.Report.Semester = 5 },
			wantErr: "Semester",
		},
		{
			name:    "exam number below one",
			mutate:  func(cfg *Config) { cfg.Report.ExamNumber = -1 },
			wantErr: "ExamNumber",
		},
		{
			name:    "malformed academic year",
			mutate:  func(cfg *Config) { cfg.Report.AcademicYear = "2025/2026" },
			wantErr: "academicyear",
		},
		{
			name:    "non consecutive academic year",
			mutate:  func(cfg *Config) { cfg.Report.AcademicYear = "2025-2027" },
			wantErr: "academicyear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsAcademicYear(t *testing.T) {
	assert.True(t, IsAcademicYear("2025-2026"))
	assert.True(t, IsAcademicYear("1999-2000"))
	assert.False(t, IsAcademicYear("2025-2025"))
	assert.False(t, IsAcademicYear("25-26"))
	assert.False(t, IsAcademicYear(""))
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
catalog:
  source: file
  path: courses2AC.json
scoring:
  rounding: halfAwayFromZero
  apportionment: largestRemainder
report:
  teacherName: "Mme Diallo"
  school: "Lycée Moulay Idriss"
  semester: 3
  academicYear: "2025-2026"
  examNumber: 2
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "courses2AC.json"), cfg.Catalog.Path)
	assert.Equal(t, "Mme Diallo", cfg.Report.TeacherName)
	assert.Equal(t, 3, cfg.Report.Semester)
	assert.Equal(t, 2, cfg.Report.ExamNumber)

	assert.Equal(t, allocator.Config{
		Target:      20,
		Granularity: 0.25,
		Rounding:    allocator.RoundHalfAwayFromZero,
		Method:      allocator.MethodLargestRemainder,
	}, cfg.AllocatorConfig())
	assert.Equal(t, categories.Defaults(), cfg.Categories())
}

func TestLoadFromPath_CustomCategories(t *testing.T) {
	path := writeConfig(t, `
catalog:
  source: postgres
  databaseURL: postgres://localhost/spec_table
scoring:
  targetTotal: 10
  granularity: 0.5
  categories:
    - {key: oral, label: "Oral", total: 4}
    - {key: written, label: "Écrit", total: 6}
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/spec_table", cfg.Catalog.DatabaseURL)
	assert.Equal(t, 2, cfg.Report.Semester)
	assert.Equal(t, 1, cfg.Report.ExamNumber)
	assert.Equal(t, 10.0, cfg.AllocatorConfig().Target)
	assert.Equal(t, 0.5, cfg.AllocatorConfig().Granularity)
	assert.Equal(t, []categories.Category{
		{Key: "oral", Label: "Oral", Total: 4},
		{Key: "written", Label: "Écrit", Total: 6},
	}, cfg.Categories())
}

func TestLoadFromPath_AbsoluteCatalogPathKept(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "units.yaml")
	path := writeConfig(t, "catalog:\n  path: "+catalogPath+"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, catalogPath, cfg.Catalog.Path)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "catalog: [unclosed")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile("spec_table_config.test.yaml", []byte("catalog:\n  path: test.json\n"), 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "test.json", cfg.Catalog.Path)

	_, err = LoadWithEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec_table_config.yaml not found")
}

func TestFindFile_HomeDirectory(t *testing.T) {
	chdir(t, t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.WriteFile(filepath.Join(home, "spec_table_config.yaml"), []byte(""), 0644))

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "spec_table_config.yaml"), path)
}

func TestWithEnv(t *testing.T) {
	assert.Equal(t, "oauthClient.json", withEnv("oauthClient", "", "json"))
	assert.Equal(t, "oauthClient.prod.json", withEnv("oauthClient", "prod", "json"))
}
