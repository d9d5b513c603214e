// Package ioschema implements lifecycle.SchemaManager for the tables of
// exported inference results. It wraps GORM AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/db"
	"github.com/gnames/gnpia/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager creates and migrates the results schema.
type Manager struct {
	operator db.Operator
}

// NewManager creates a new Manager that uses connection pool of the
// operator.
func NewManager(op db.Operator) *Manager {
	return &Manager{operator: op}
}

// Create creates the results schema and sets "C" collation on columns
// used for sorting.
func (m *Manager) Create(ctx context.Context, cfg *config.Config) error {
	gormDB, err := m.gorm(ctx)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.setCollation(ctx); err != nil {
		return err
	}
	slog.Info("Results schema created", "database", cfg.Database.Database)
	return nil
}

// Migrate updates the results schema to the latest version.
func (m *Manager) Migrate(ctx context.Context, cfg *config.Config) error {
	gormDB, err := m.gorm(ctx)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}
	slog.Info("Results schema migrated", "database", cfg.Database.Database)
	return nil
}

func (m *Manager) gorm(ctx context.Context) (*gorm.DB, error) {
	if m.operator == nil || m.operator.Pool() == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(m.operator.Pool())
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB.WithContext(ctx), nil
}

func (m *Manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()

	columns := []struct {
		table, column string
	}{
		{"protein_accessions", "accession"},
		{"protein_peptides", "peptide"},
	}

	for _, col := range columns {
		q := collationSQL(col.table, col.column)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}
	return nil
}
