package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/spec-table/pkg/core/services"
	"github.com/jakechorley/spec-table/pkg/db"
)

// ImportCatalogCmd creates the importCatalog command
func ImportCatalogCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importCatalog <file>",
		Short: "Import a JSON or YAML course catalog into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Writer == nil {
				return errors.New("importCatalog requires catalog.source: postgres")
			}

			source, err := db.NewFileCatalog(args[0])
			if err != nil {
				return err
			}

			result, err := services.ImportCatalog(app.Ctx, source, app.Writer, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Imported %d course units (%d rows written)\n", result.Read, result.Written)
			return nil
		},
	}
}
