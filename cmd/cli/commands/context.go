package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/spec-table/internal/config"
	"github.com/jakechorley/spec-table/pkg/db"
)

// AppContext holds the application dependencies shared across all commands.
// It is filled in by the root command before any subcommand runs.
type AppContext struct {
	Cfg     *config.Config
	Catalog db.CatalogStore

	// Writer is set only when the catalog can be imported into
	Writer db.CatalogWriter

	Logger *zap.Logger
	Ctx    context.Context
}
