package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/spec-table/pkg/core/allocator"
	"github.com/jakechorley/spec-table/pkg/core/categories"
)

// Catalog sources
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

// CatalogConfig selects where course units are read from
type CatalogConfig struct {
	Source      string `yaml:"source" validate:"required,oneof=file postgres sheets"`
	Path        string `yaml:"path,omitempty" validate:"required_if=Source file"`
	DatabaseURL string `yaml:"databaseURL,omitempty" validate:"required_if=Source postgres"`
	SheetID     string `yaml:"sheetID,omitempty" validate:"required_if=Source sheets"`
	SheetTab    string `yaml:"sheetTab,omitempty" validate:"required_if=Source sheets"`
}

// CategoryConfig is one assessment category and its point budget
type CategoryConfig struct {
	Key   string  `yaml:"key" validate:"required"`
	Label string  `yaml:"label" validate:"required"`
	Total float64 `yaml:"total" validate:"gt=0"`
}

// ScoringConfig controls how the target total is apportioned
type ScoringConfig struct {
	TargetTotal   float64          `yaml:"targetTotal" validate:"gt=0"`
	Granularity   float64          `yaml:"granularity" validate:"gt=0"`
	Rounding      string           `yaml:"rounding" validate:"oneof=halfEven halfAwayFromZero"`
	Apportionment string           `yaml:"apportionment" validate:"oneof=singlePass largestRemainder"`
	Categories    []CategoryConfig `yaml:"categories" validate:"min=1,unique=Key,dive"`
}

// ReportConfig holds the header defaults of generated tables. Command flags override them.
type ReportConfig struct {
	TeacherName  string `yaml:"teacherName,omitempty"`
	School       string `yaml:"school,omitempty"`
	Semester     int    `yaml:"semester" validate:"min=1,max=4"`
	AcademicYear string `yaml:"academicYear,omitempty" validate:"omitempty,academicyear"`
	ExamNumber   int    `yaml:"examNumber" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Scoring ScoringConfig `yaml:"scoring"`
	Report  ReportConfig  `yaml:"report"`
}

var validate *validator.Validate

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("academicyear", validateAcademicYear); err != nil {
		panic(err)
	}
}

// validateAcademicYear accepts "YYYY-YYYY" where the second year follows the first
func validateAcademicYear(fl validator.FieldLevel) bool {
	return IsAcademicYear(fl.Field().String())
}

// IsAcademicYear reports whether s is a label like "2025-2026"
func IsAcademicYear(s string) bool {
	match := academicYearPattern.FindStringSubmatch(s)
	if match == nil {
		return false
	}
	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	return end == start+1
}

// Load loads and validates the configuration from spec_table_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "spec_table_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Relative catalog paths are resolved against the directory of the config file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Catalog.Path != "" && !filepath.IsAbs(cfg.Catalog.Path) {
		cfg.Catalog.Path = filepath.Join(filepath.Dir(path), cfg.Catalog.Path)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills the scoring and report fields left out of the file
func applyDefaults(cfg *Config) {
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceFile
	}

	scoring := &cfg.Scoring
	if scoring.TargetTotal == 0 {
		scoring.TargetTotal = allocator.DefaultTarget
	}
	if scoring.Granularity == 0 {
		scoring.Granularity = allocator.DefaultGranularity
	}
	if scoring.Rounding == "" {
		scoring.Rounding = string(allocator.RoundHalfEven)
	}
	if scoring.Apportionment == "" {
		scoring.Apportionment = string(allocator.MethodSinglePass)
	}
	if len(scoring.Categories) == 0 {
		for _, category := range categories.Defaults() {
			scoring.Categories = append(scoring.Categories, CategoryConfig{
				Key:   category.Key,
				Label: category.Label,
				Total: category.Total,
			})
		}
	}

	if cfg.Report.Semester == 0 {
		cfg.Report.Semester = 2
	}
	if cfg.Report.ExamNumber == 0 {
		cfg.Report.ExamNumber = 1
	}
}

// Validate validates the configuration struct and the cross-field scoring rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	scoring := cfg.Scoring

	sum := categories.TotalOf(cfg.Categories())
	if math.Abs(sum-scoring.TargetTotal) > allocator.Tolerance {
		return fmt.Errorf("config validation failed: category totals sum to %v, expected targetTotal %v", sum, scoring.TargetTotal)
	}

	allocatorCfg := cfg.AllocatorConfig()
	if scoring.Apportionment == string(allocator.MethodLargestRemainder) && !allocatorCfg.IsMultiple(scoring.TargetTotal) {
		return fmt.Errorf("config validation failed: largestRemainder requires targetTotal %v to be a multiple of granularity %v", scoring.TargetTotal, scoring.Granularity)
	}

	return nil
}

// AllocatorConfig builds the allocator configuration from the scoring section
func (c *Config) AllocatorConfig() allocator.Config {
	return allocator.Config{
		Target:      c.Scoring.TargetTotal,
		Granularity: c.Scoring.Granularity,
		Rounding:    allocator.Rounding(c.Scoring.Rounding),
		Method:      allocator.Method(c.Scoring.Apportionment),
	}
}

// Categories returns the configured assessment categories in file order
func (c *Config) Categories() []categories.Category {
	cats := make([]categories.Category, len(c.Scoring.Categories))
	for i, category := range c.Scoring.Categories {
		cats[i] = categories.Category{
			Key:   category.Key,
			Label: category.Label,
			Total: category.Total,
		}
	}
	return cats
}

// findConfigFile searches for spec_table_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "spec_table_config.test.yaml")
func findConfigFile(env string) (string, error) {
	return findFile(withEnv("spec_table_config", env, "yaml"))
}

// withEnv builds "<base>.<env>.<ext>", or "<base>.<ext>" when env is empty
func withEnv(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile looks for fileName in the current directory, then in the user's home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
