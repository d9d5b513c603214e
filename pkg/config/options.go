package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk export call.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptCompileInputFiles sets PSM result files for compilation.
// Runtime-only field - not in ToOptions().
func OptCompileInputFiles(ss []string) Option {
	var res []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			res = append(res, s)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Compile.InputFiles = res
		}
	}
}

// OptCompileOutputFile sets the path of the compiled structure file.
// Runtime-only field - not in ToOptions().
func OptCompileOutputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Compile Output File", s) {
			c.Compile.OutputFile = s
		}
	}
}

// OptInferenceMethod sets the protein inference strategy.
// Valid values: "occams_razor", "spectrum_extractor", "report_all".
func OptInferenceMethod(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Inference.Method", s) {
			c.Inference.Method = s
		}
	}
}

// OptInferenceScoring sets the protein scoring strategy.
// Valid values: "scoring_additive", "scoring_multiplicative",
// "geometric_mean_scoring".
func OptInferenceScoring(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Inference.Scoring", s) {
			c.Inference.Scoring = s
		}
	}
}

// OptInferenceScore sets the PSM score used for protein scoring.
func OptInferenceScore(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidString("Inference Score", s) {
			c.Inference.Score = s
		}
	}
}

// OptInferencePSMForScoring sets which PSMs contribute to protein score.
// Valid values: "best", "all".
func OptInferencePSMForScoring(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Inference.PSMForScoring", s) {
			c.Inference.PSMForScoring = s
		}
	}
}

// OptInferenceConsiderModifications sets whether modified forms of a
// sequence are different peptides.
func OptInferenceConsiderModifications(b bool) Option {
	return func(c *Config) {
		c.Inference.ConsiderModifications = b
	}
}

// OptInferencePSMSetSettings sets fields of the PSM identification key.
// Unknown fields are ignored with a warning.
func OptInferencePSMSetSettings(ss []string) Option {
	var res []string
	for _, s := range ss {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if isValidEnum("Inference.PSMSetSettings", s) {
			res = append(res, s)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Inference.PSMSetSettings = res
		}
	}
}

// OptInferenceCreatePSMSets sets whether PSMs of different files are
// merged into PSM sets.
func OptInferenceCreatePSMSets(b bool) Option {
	return func(c *Config) {
		c.Inference.CreatePSMSets = b
	}
}

// OptInferenceCompiledFile sets the compiled structure file.
// Runtime-only field - not in ToOptions().
func OptInferenceCompiledFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Compiled File", s) {
			c.Inference.CompiledFile = s
		}
	}
}

// OptInferenceFilters sets filters given in command line notation.
// Runtime-only field - not in ToOptions().
func OptInferenceFilters(ss []string) Option {
	var res []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			res = append(res, s)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Inference.Filters = res
		}
	}
}

// OptInferenceFiltersFile sets a YAML file with filters.
// Runtime-only field - not in ToOptions().
func OptInferenceFiltersFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Filters File", s) {
			c.Inference.FiltersFile = s
		}
	}
}

// OptInferenceOutputFile sets the output path for reported proteins.
// Runtime-only field - not in ToOptions().
func OptInferenceOutputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output File", s) {
			c.Inference.OutputFile = s
		}
	}
}

// OptInferenceOutputFormat sets the output format.
// Valid values: "tsv", "csv", "json".
// Runtime-only field - not in ToOptions().
func OptInferenceOutputFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Inference.OutputFormat", s) {
			c.Inference.OutputFormat = s
		}
	}
}

// OptInferenceExportToDB sets whether results are sent to PostgreSQL.
// Runtime-only field - not in ToOptions().
func OptInferenceExportToDB(b bool) Option {
	return func(c *Config) {
		c.Inference.ExportToDB = b
	}
}

// OptCacheEnabled turns the inference results cache on or off.
func OptCacheEnabled(b bool) Option {
	return func(c *Config) {
		c.Cache.Enabled = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
