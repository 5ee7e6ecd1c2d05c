package db

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/spec-table/pkg/core/model"
)

// CourseUnit is a catalog record. JSON keys follow the exported course files
// (courses2AC.json), YAML keys are plain English.
type CourseUnit struct {
	ID                    string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name                  string  `json:"name" yaml:"name" validate:"required"`
	Hours                 float64 `json:"hours" yaml:"hours" validate:"gt=0"`
	Objectives            string  `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	EvaluableCapabilities string  `json:"Capacités évaluables,omitempty" yaml:"capabilities,omitempty"`
	EvaluableKnowledge    string  `json:"Connaissances évaluables,omitempty" yaml:"knowledge,omitempty"`
}

// ToModel converts the record into the core representation
func (u CourseUnit) ToModel() model.CourseUnit {
	return model.CourseUnit{
		Name:                  u.Name,
		Hours:                 u.Hours,
		Objectives:            u.Objectives,
		EvaluableCapabilities: u.EvaluableCapabilities,
		EvaluableKnowledge:    u.EvaluableKnowledge,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateCourseUnits checks every record and that names are unique
func ValidateCourseUnits(units []CourseUnit) error {
	seen := make(map[string]bool, len(units))
	for i, unit := range units {
		if err := validate.Struct(unit); err != nil {
			return fmt.Errorf("course unit %d (%q) validation failed: %w", i, unit.Name, err)
		}
		if seen[unit.Name] {
			return fmt.Errorf("duplicate course unit name: %q", unit.Name)
		}
		seen[unit.Name] = true
	}
	return nil
}

// FilterByName keeps the units whose names are listed, preserving catalog order
func FilterByName(units []CourseUnit, names []string) []CourseUnit {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	filtered := make([]CourseUnit, 0, len(names))
	for _, unit := range units {
		if wanted[unit.Name] {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}

// MissingNames returns the listed names that have no matching unit, in the order given
func MissingNames(units []CourseUnit, names []string) []string {
	found := make(map[string]bool, len(units))
	for _, unit := range units {
		found[unit.Name] = true
	}

	var missing []string
	for _, name := range names {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
