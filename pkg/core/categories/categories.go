// Package categories splits a unit's score across the fixed assessment categories.
//
// Each category value is rounded on its own. Nothing reconciles the values of one
// unit with its score, and nothing reconciles the column sums with the configured
// category totals: Gaps reports the difference instead.
package categories

import (
	"math"

	"github.com/jakechorley/spec-table/pkg/core/allocator"
)

// Built-in category keys
const (
	KeyRecall  = "recall"
	KeyApplied = "applied"
	KeyProblem = "problem"
)

// Category is one assessment category with its fixed point budget
type Category struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// Defaults returns recall questions, applied knowledge and problem-situation
// with totals 8, 8 and 4
func Defaults() []Category {
	return []Category{
		{Key: KeyRecall, Label: "Questions de cours", Total: 8},
		{Key: KeyApplied, Label: "Application des connaissances", Total: 8},
		{Key: KeyProblem, Label: "Situation-problème", Total: 4},
	}
}

// Split returns one rounded value per category: round(score / target * total)
func Split(score float64, categories []Category, cfg allocator.Config) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	if math.IsNaN(score) || score < -allocator.Tolerance || score > cfg.Target+allocator.Tolerance {
		return nil, allocator.InvalidInput("score %v is outside [0, %v]", score, cfg.Target)
	}

	values := make([]float64, len(categories))
	for i, category := range categories {
		values[i] = cfg.Round(score / cfg.Target * category.Total)
	}
	return values, nil
}

// SplitAll splits every score. It fails as a whole if any score is invalid.
func SplitAll(scores []float64, categories []Category, cfg allocator.Config) ([][]float64, error) {
	breakdowns := make([][]float64, len(scores))
	for i, score := range scores {
		values, err := Split(score, categories, cfg)
		if err != nil {
			return nil, err
		}
		breakdowns[i] = values
	}
	return breakdowns, nil
}

// Sums adds up each category column across all breakdowns
func Sums(breakdowns [][]float64, categoryCount int) []float64 {
	sums := make([]float64, categoryCount)
	for _, values := range breakdowns {
		for i := 0; i < categoryCount && i < len(values); i++ {
			sums[i] += values[i]
		}
	}
	return sums
}

// Gaps returns sums[i] - categories[i].Total. A non-zero gap is expected behaviour
// of independent rounding, not an error.
func Gaps(sums []float64, categories []Category) []float64 {
	gaps := make([]float64, len(categories))
	for i, category := range categories {
		if i >= len(sums) {
			gaps[i] = -category.Total
			continue
		}
		gap := sums[i] - category.Total
		if math.Abs(gap) <= allocator.Tolerance {
			gap = 0
		}
		gaps[i] = gap
	}
	return gaps
}

// TotalOf sums the configured category totals
func TotalOf(categories []Category) float64 {
	total := 0.0
	for _, category := range categories {
		total += category.Total
	}
	return total
}

func validateCategories(categories []Category) error {
	if len(categories) == 0 {
		return allocator.InvalidInput("at least one category is required")
	}
	for _, category := range categories {
		if !(category.Total > 0) {
			return allocator.InvalidInput("category %q has non-positive total (%v)", category.Key, category.Total)
		}
	}
	return nil
}
