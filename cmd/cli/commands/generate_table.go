package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/spec-table/pkg/core/services"
)

// GenerateTableCmd creates the generateTable command
func GenerateTableCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateTable <unit>...",
		Short: "Generate the specification table for the selected units",
		Long: `Generate the specification table for the selected units.

Units appear in the order they are given. Header flags override the report
section of the configuration file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teacher, _ := cmd.Flags().GetString("teacher")
			school, _ := cmd.Flags().GetString("school")
			semester, _ := cmd.Flags().GetInt("semester")
			year, _ := cmd.Flags().GetString("year")
			exam, _ := cmd.Flags().GetInt("exam")
			output, _ := cmd.Flags().GetString("output")

			if output != "text" && output != "json" {
				return fmt.Errorf("output must be text or json, got %q", output)
			}

			table, err := services.GenerateSpecTable(app.Ctx, app.Catalog, app.Cfg, app.Logger, services.SpecTableRequest{
				UnitNames:    args,
				TeacherName:  teacher,
				School:       school,
				Semester:     semester,
				AcademicYear: year,
				ExamNumber:   exam,
			})
			if err != nil {
				return err
			}

			if output == "json" {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(table)
			}

			renderSpecTable(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().String("teacher", "", "Teacher name")
	cmd.Flags().String("school", "", "School name")
	cmd.Flags().Int("semester", 0, "Semester (1-4)")
	cmd.Flags().String("year", "", "Academic year, e.g. 2025-2026")
	cmd.Flags().Int("exam", 0, "Exam number")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}
