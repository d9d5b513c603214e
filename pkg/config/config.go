// Package config provides configuration management for gnpia.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Inference: method, scoring, score, psm_for_scoring,
//     consider_modifications, psm_set_settings, create_psm_sets
//   - Cache: enabled
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Compile.InputFiles, Compile.OutputFile (per-command)
//   - Inference.CompiledFile, Filters, FiltersFile, OutputFile,
//     OutputFormat, ExportToDB (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNPIA_ prefix with underscores for nesting:
//
//	GNPIA_DATABASE_HOST=localhost
//	GNPIA_INFERENCE_METHOD=spectrum_extractor
//	GNPIA_LOG_LEVEL=info
//	GNPIA_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnpia configuration.
type Config struct {
	// Database contains PostgreSQL connection settings used to export
	// inference results.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Compile contains settings specific to the compile command.
	Compile CompileConfig `mapstructure:"compile" yaml:"compile"`

	// Inference contains protein inference settings.
	Inference InferenceConfig `mapstructure:"inference" yaml:"inference"`

	// Cache contains settings of the inference results cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows sent per CopyFrom call during
	// export of reported proteins.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// CompileConfig contains settings specific to the compile command.
type CompileConfig struct {
	// InputFiles are paths to PSM result files (TSV or mzIdentML).
	InputFiles []string `mapstructure:"input_files" yaml:"input_files"`

	// OutputFile is the path of the compiled SQLite file.
	OutputFile string `mapstructure:"output_file" yaml:"output_file"`
}

// InferenceConfig contains protein inference settings.
type InferenceConfig struct {
	// Method is the inference strategy: "occams_razor",
	// "spectrum_extractor" or "report_all".
	Method string `mapstructure:"method" yaml:"method"`

	// Scoring is the protein scoring strategy: "scoring_additive",
	// "scoring_multiplicative" or "geometric_mean_scoring".
	Scoring string `mapstructure:"scoring" yaml:"scoring"`

	// Score is the name of the PSM score used by the scoring strategy.
	Score string `mapstructure:"score" yaml:"score"`

	// PSMForScoring is "best" (best PSM per peptide) or "all".
	PSMForScoring string `mapstructure:"psm_for_scoring" yaml:"psm_for_scoring"`

	// ConsiderModifications distinguishes peptides by their modifications.
	ConsiderModifications bool `mapstructure:"consider_modifications" yaml:"consider_modifications"`

	// PSMSetSettings are the PSM fields that make an identification key.
	PSMSetSettings []string `mapstructure:"psm_set_settings" yaml:"psm_set_settings"`

	// CreatePSMSets merges PSMs of different files into one PSM set when
	// their identification keys agree.
	CreatePSMSets bool `mapstructure:"create_psm_sets" yaml:"create_psm_sets"`

	// CompiledFile is the compiled structure to run inference on.
	CompiledFile string `mapstructure:"compiled_file" yaml:"compiled_file"`

	// Filters are filters in command line notation, e.g. "charge GT 1".
	Filters []string `mapstructure:"filters" yaml:"filters"`

	// FiltersFile is a YAML file with filter definitions.
	FiltersFile string `mapstructure:"filters_file" yaml:"filters_file"`

	// OutputFile is where reported proteins are written, empty for STDOUT.
	OutputFile string `mapstructure:"output_file" yaml:"output_file"`

	// OutputFormat is "tsv", "csv" or "json".
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// ExportToDB sends reported proteins to PostgreSQL.
	ExportToDB bool `mapstructure:"export_to_db" yaml:"export_to_db"`
}

// CacheConfig contains settings of inference results cache.
type CacheConfig struct {
	// Enabled turns on reuse of results computed with identical settings.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnpia",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Inference: InferenceConfig{
			Method:         "occams_razor",
			Scoring:        "scoring_multiplicative",
			Score:          "psm_combined_fdr_score",
			PSMForScoring:  "best",
			PSMSetSettings: DefaultPSMSetSettings(),
			CreatePSMSets:  true,
			OutputFormat:   "tsv",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

// DefaultPSMSetSettings returns the identification key fields used when
// nothing else is configured.
func DefaultPSMSetSettings() []string {
	return []string{
		"charge", "mass_to_charge", "modifications",
		"retention_time", "sequence",
	}
}
