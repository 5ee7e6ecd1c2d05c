package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/spec-table/pkg/db"
)

// Header names of the catalog tab. Name and Hours are required, the rest are optional.
const (
	ColumnName         = "Name"
	ColumnHours        = "Hours"
	ColumnObjectives   = "Objectives"
	ColumnCapabilities = "Evaluable capabilities"
	ColumnKnowledge    = "Evaluable knowledge"
)

// Catalog is a db.CatalogStore backed by one tab of a spreadsheet.
// The tab is read on every call so edits in the sheet are picked up immediately.
type Catalog struct {
	getter  ValuesGetter
	sheetID string
	tab     string
}

// NewCatalog creates a catalog reading the given spreadsheet tab
func NewCatalog(getter ValuesGetter, sheetID, tab string) *Catalog {
	return &Catalog{
		getter:  getter,
		sheetID: sheetID,
		tab:     tab,
	}
}

// ListCourseUnits returns every unit in sheet order
func (c *Catalog) ListCourseUnits(ctx context.Context) ([]db.CourseUnit, error) {
	values, err := c.getter.GetValues(ctx, c.sheetID, c.tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog tab %q: %w", c.tab, err)
	}

	units, err := parseCourseUnits(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog tab %q: %w", c.tab, err)
	}

	return units, nil
}

// GetCourseUnits returns the listed units in sheet order
func (c *Catalog) GetCourseUnits(ctx context.Context, names []string) ([]db.CourseUnit, error) {
	units, err := c.ListCourseUnits(ctx)
	if err != nil {
		return nil, err
	}
	return db.FilterByName(units, names), nil
}

// parseCourseUnits maps rows to units using the header row. Rows with a blank name are skipped.
func parseCourseUnits(values [][]interface{}) ([]db.CourseUnit, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	columns := make(map[string]int)
	for i, cell := range values[0] {
		columns[strings.TrimSpace(cellString(cell))] = i
	}
	for _, required := range []string{ColumnName, ColumnHours} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	get := func(row []interface{}, column string) interface{} {
		idx, ok := columns[column]
		if !ok || idx >= len(row) {
			return nil
		}
		return row[idx]
	}

	units := make([]db.CourseUnit, 0, len(values)-1)
	for i, row := range values[1:] {
		name := strings.TrimSpace(cellString(get(row, ColumnName)))
		if name == "" {
			continue
		}

		hours, err := parseHours(get(row, ColumnHours))
		if err != nil {
			// i+2 is the 1-based sheet row including the header
			return nil, fmt.Errorf("row %d (%q): %w", i+2, name, err)
		}

		units = append(units, db.CourseUnit{
			Name:                  name,
			Hours:                 hours,
			Objectives:            cellString(get(row, ColumnObjectives)),
			EvaluableCapabilities: cellString(get(row, ColumnCapabilities)),
			EvaluableKnowledge:    cellString(get(row, ColumnKnowledge)),
		})
	}

	if err := db.ValidateCourseUnits(units); err != nil {
		return nil, err
	}

	return units, nil
}

// parseHours accepts numeric cells and strings using either a dot or a comma as decimal separator
func parseHours(cell interface{}) (float64, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("hours are empty")
	}

	raw := strings.TrimSpace(cellString(cell))
	if raw == "" {
		return 0, fmt.Errorf("hours are empty")
	}

	hours, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", raw)
	}
	return hours, nil
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
