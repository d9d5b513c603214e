package lifecycle

import (
	"context"

	"github.com/gnames/gnpia/pkg/config"
)

// SchemaManager defines the interface for the schema of exported
// inference results. It uses GORM AutoMigrate for both initial schema
// creation and migrations, so it is safe to run multiple times.
type SchemaManager interface {
	// Create creates the results schema using GORM AutoMigrate.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the results schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}
