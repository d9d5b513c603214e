// Package iotesting provides shared helpers for integration tests.
package iotesting

import (
	"os"
	"strconv"
	"testing"

	"github.com/gnames/gnpia/pkg/config"
)

// TestDatabaseName is the database used by all integration tests, so
// they never touch a real results database.
const TestDatabaseName = "gnpia_test"

// GetTestConfig returns default configuration updated by GNPIA_DATABASE_*
// environment variables. The database name is always TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("GNPIA_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNPIA_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("GNPIA_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNPIA_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database part of GetTestConfig.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SetupHomeDir creates a temporary home directory and returns a config
// that points to it, so tests never write into the real ~/.config,
// ~/.cache or log directories.
func SetupHomeDir(t *testing.T) *config.Config {
	t.Helper()
	cfg := GetTestConfig()
	cfg.Update([]config.Option{config.OptHomeDir(t.TempDir())})
	return cfg
}
