// Package db defines the contract for the PostgreSQL database that
// receives exported inference results.
package db

import (
	"context"

	"github.com/gnames/gnpia/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// to the components that write results (schema manager, exporter).
//
// Schema creation and migration are handled by GORM AutoMigrate via
// SchemaManager, bulk inserts use CopyFrom of the pool.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	DropAllTables(ctx context.Context) error

	// CountRows returns the number of rows of a table.
	CountRows(ctx context.Context, tableName string) (int64, error)
}
