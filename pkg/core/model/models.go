package model

import (
	"fmt"
	"time"
)

// CourseUnit is a unit of the course catalog. Only Name and Hours take part in
// scoring; the descriptive fields are echoed into the report untouched.
type CourseUnit struct {
	Name                  string
	Hours                 float64
	Objectives            string
	EvaluableCapabilities string
	EvaluableKnowledge    string
}

// Selection is the ordered list of units chosen for one specification table
type Selection []CourseUnit

// TotalHours sums the hours of every unit in the selection
func (s Selection) TotalHours() float64 {
	total := 0.0
	for _, unit := range s {
		total += unit.Hours
	}
	return total
}

// Names returns the unit names in selection order
func (s Selection) Names() []string {
	names := make([]string, len(s))
	for i, unit := range s {
		names[i] = unit.Name
	}
	return names
}

// ReportHeader is the exam metadata printed above the tables
type ReportHeader struct {
	TeacherName  string `json:"teacherName"`
	School       string `json:"school"`
	Semester     int    `json:"semester"`
	AcademicYear string `json:"academicYear"`
	ExamNumber   int    `json:"examNumber"`
}

// Title returns the heading of the specification table
func (h ReportHeader) Title() string {
	return fmt.Sprintf("Tableau de spécification N°%d – Semestre %d, Année scolaire %s",
		h.ExamNumber, h.Semester, h.AcademicYear)
}

// DefaultAcademicYear returns the school year label used when none is configured.
// A school year starts in the autumn, so the label begins with the previous calendar year.
func DefaultAcademicYear(now time.Time) string {
	start := now.Year() - 1
	return fmt.Sprintf("%d-%d", start, start+1)
}
