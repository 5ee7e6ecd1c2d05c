package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	selection := Selection{
		{Name: "Nutrition", Hours: 3},
		{Name: "Respiration", Hours: 5},
		{Name: "Circulation", Hours: 2},
	}

	assert.Equal(t, 10.0, selection.TotalHours())
	assert.Equal(t, []string{"Nutrition", "Respiration", "Circulation"}, selection.Names())
}

func TestReportHeader_Title(t *testing.T) {
	header := ReportHeader{Semester: 2, AcademicYear: "2025-2026", ExamNumber: 1}
	assert.Equal(t, "Tableau de spécification N°1 – Semestre 2, Année scolaire 2025-2026", header.Title())
}

func TestDefaultAcademicYear(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-2026", DefaultAcademicYear(now))
}
