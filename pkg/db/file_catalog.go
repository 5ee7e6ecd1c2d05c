package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileCatalog is a read-only catalog loaded from a JSON or YAML file
type FileCatalog struct {
	path  string
	units []CourseUnit
}

// NewFileCatalog loads and validates the catalog at path.
// The format is chosen by extension: .json, .yaml or .yml.
func NewFileCatalog(path string) (*FileCatalog, error) {
	units, err := LoadCourseUnits(path)
	if err != nil {
		return nil, err
	}
	return &FileCatalog{path: path, units: units}, nil
}

// LoadCourseUnits reads and validates the course units in a catalog file
func LoadCourseUnits(path string) ([]CourseUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var units []CourseUnit
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &units)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &units)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := ValidateCourseUnits(units); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	return units, nil
}

// Path returns the file the catalog was loaded from
func (c *FileCatalog) Path() string {
	return c.path
}

// ListCourseUnits returns a copy of every unit in file order
func (c *FileCatalog) ListCourseUnits(ctx context.Context) ([]CourseUnit, error) {
	units := make([]CourseUnit, len(c.units))
	copy(units, c.units)
	return units, nil
}

// GetCourseUnits returns the named units in file order
func (c *FileCatalog) GetCourseUnits(ctx context.Context, names []string) ([]CourseUnit, error) {
	return FilterByName(c.units, names), nil
}
