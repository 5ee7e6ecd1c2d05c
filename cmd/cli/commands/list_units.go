package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/spec-table/pkg/core/services"
)

// ListUnitsCmd creates the listUnits command
func ListUnitsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listUnits",
		Short: "List the course units of the catalog with their hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := services.ListCourseUnits(app.Ctx, app.Catalog, app.Logger)
			if err != nil {
				return err
			}

			renderUnits(cmd.OutOrStdout(), units)
			return nil
		},
	}
}
