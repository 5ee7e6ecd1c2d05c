package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/spec-table/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <unit>...",
		Short: "Show the score allocated to each selected unit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.AllocateScores(app.Ctx, app.Catalog, app.Cfg, app.Logger, args)
			if err != nil {
				return err
			}

			renderAllocation(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
