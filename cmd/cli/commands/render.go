package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jakechorley/spec-table/pkg/core/model"
	"github.com/jakechorley/spec-table/pkg/core/services"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%g", hours)
}

func formatPercentage(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatPoints(points float64) string {
	return fmt.Sprintf("%.2f pts", points)
}

// cell flattens multi-line catalog text so it fits in one table cell
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return s
}

func renderUnits(w io.Writer, units []model.CourseUnit) {
	fmt.Fprintf(w, "\nFound %d course units:\n\n", len(units))

	tw := newTable(w)
	fmt.Fprintln(tw, "Nom du Cours\tVolume horaire")
	for _, unit := range units {
		fmt.Fprintf(tw, "%s\t%s\n", unit.Name, formatHours(unit.Hours))
	}
	tw.Flush()
}

func renderAllocation(w io.Writer, result *services.AllocationResult) {
	outcome := result.Outcome

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "Nom du Cours\tVolume horaire\tPourcentage\tNote")
	for _, share := range outcome.Shares {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", share.ID, formatHours(share.Hours), formatPercentage(share.Percentage), formatScore(share.Score))
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\n", formatHours(outcome.TotalHours), formatPercentage(1), formatScore(outcome.Total()))
	tw.Flush()

	renderDrift(w, outcome.Drift, correctedUnit(result), outcome.Residual)
}

func correctedUnit(result *services.AllocationResult) string {
	if result.Outcome.CorrectedIndex < 0 {
		return ""
	}
	return result.Outcome.Shares[result.Outcome.CorrectedIndex].ID
}

func renderDrift(w io.Writer, drift float64, corrected string, residual float64) {
	if drift != 0 {
		fmt.Fprintf(w, "\nRounding drift %+.2f", drift)
		if corrected != "" {
			fmt.Fprintf(w, " absorbed by %q", corrected)
		}
		fmt.Fprintln(w)
	}
	if residual != 0 {
		fmt.Fprintf(w, "⚠️  Scores miss the target total by %+.4f\n", residual)
	}
}

func renderSpecTable(w io.Writer, table *services.SpecTable) {
	fmt.Fprintf(w, "\n%s\n", table.Title)

	fmt.Fprintln(w, "\nInformations générales")
	tw := newTable(w)
	fmt.Fprintf(tw, "Enseignant\t%s\n", cell(table.Header.TeacherName))
	fmt.Fprintf(tw, "Établissement\t%s\n", cell(table.Header.School))
	fmt.Fprintf(tw, "Semestre\t%d\n", table.Header.Semester)
	fmt.Fprintf(tw, "Année scolaire\t%s\n", table.Header.AcademicYear)
	fmt.Fprintf(tw, "Examen N°\t%d\n", table.Header.ExamNumber)
	tw.Flush()

	fmt.Fprintln(w, "\nDétails des cours")
	tw = newTable(w)
	fmt.Fprintln(tw, "Nom du Cours\tObjectifs\tCapacités évaluables\tConnaissances évaluables")
	for _, row := range table.Details {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, cell(row.Objectives), cell(row.EvaluableCapabilities), cell(row.EvaluableKnowledge))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nCalculs")
	tw = newTable(w)
	headers := []string{"Nom du Cours", "Volume horaire", "Pourcentage", fmt.Sprintf("Barème (/%g)", table.Target)}
	for _, category := range table.Categories {
		headers = append(headers, category.Label)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range table.Rows {
		cells := []string{row.Name, formatHours(row.Hours), formatPercentage(row.Percentage), formatScore(row.Score)}
		for _, value := range row.Categories {
			cells = append(cells, formatPoints(value))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	totals := []string{"Total", formatHours(table.Totals.Hours), formatPercentage(table.Totals.Percentage), formatScore(table.Totals.Score)}
	for _, sum := range table.Totals.Categories {
		totals = append(totals, formatPoints(sum))
	}
	fmt.Fprintln(tw, strings.Join(totals, "\t"))
	tw.Flush()

	noted := false
	for i, gap := range table.CategoryGaps {
		if gap == 0 {
			continue
		}
		if !noted {
			fmt.Fprintln(w)
			noted = true
		}
		fmt.Fprintf(w, "Note: %s adds up to %s instead of %s\n",
			table.Categories[i].Label, formatPoints(table.Totals.Categories[i]), formatPoints(table.Categories[i].Total))
	}

	renderDrift(w, table.Diagnostics.Drift, table.Diagnostics.CorrectedUnit, table.Diagnostics.Residual)
	fmt.Fprintln(w)
}
