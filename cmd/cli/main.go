package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/cmd/cli/commands"
	"github.com/jakechorley/spec-table/internal/config"
	"github.com/jakechorley/spec-table/pkg/clients/sheetsclient"
	"github.com/jakechorley/spec-table/pkg/db"
	"github.com/jakechorley/spec-table/pkg/postgres"
	"github.com/jakechorley/spec-table/pkg/utils/logging"
)

var (
	env          string
	app          = &commands.AppContext{}
	logFile      *logging.LogFile
	closeCatalog func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spec-table",
		Short: "Specification table generator - allocate exam points across course units",
		Long: `A CLI tool that builds an exam specification table: it shares the exam total across
the selected course units in proportion to their teaching hours and splits each
share across the assessment categories.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeCatalog != nil {
				closeCatalog()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
			if logFile != nil {
				logFile.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects spec_table_config.<env>.yaml, optional)")

	rootCmd.AddCommand(commands.ListUnitsCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.GenerateTableCmd(app))
	rootCmd.AddCommand(commands.ImportCatalogCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the catalog store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, logFile, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded",
		zap.String("catalog_source", app.Cfg.Catalog.Source),
		zap.Float64("target_total", app.Cfg.Scoring.TargetTotal),
		zap.String("apportionment", app.Cfg.Scoring.Apportionment))

	return openCatalog()
}

// openCatalog connects the catalog store selected by catalog.source
func openCatalog() error {
	catalogCfg := app.Cfg.Catalog

	switch catalogCfg.Source {
	case config.SourcePostgres:
		app.Logger.Debug("Connecting to database")
		database, err := postgres.NewDB(app.Ctx, catalogCfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(app.Ctx); err != nil {
			database.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Catalog = database
		app.Writer = database
		closeCatalog = database.Close

	case config.SourceSheets:
		app.Logger.Debug("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Catalog = sheetsclient.NewCatalog(client, catalogCfg.SheetID, catalogCfg.SheetTab)

	default:
		catalog, err := db.NewFileCatalog(catalogCfg.Path)
		if err != nil {
			return err
		}
		app.Catalog = catalog
	}

	app.Logger.Debug("Catalog ready", zap.String("source", catalogCfg.Source))
	return nil
}
