/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/internal/iofs"
	"github.com/gnames/gnpia/internal/iologger"
	gnpia "github.com/gnames/gnpia/pkg"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", gnpia.Version, gnpia.Build),
		Use:     "gnpia",
		Short:   "GNpia infers proteins from peptide identifications",
		Long: `GNpia compiles peptide-spectrum matches (PSMs) of search engines
into a graph of protein groups and infers the proteins that explain
the identified peptides.

Workflow:
  - compile: read TSV or mzIdentML results into a compiled file
  - infer: run protein inference on a compiled file
  - create: create PostgreSQL schema for exported results
  - migrate: update PostgreSQL schema

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNPIA_*)
  3. Config file (~/.config/gnpia/config.yaml)
  4. Built-in defaults

Examples:
  gnpia compile -o sample.gnpia engine1.tsv engine2.mzid
  gnpia infer sample.gnpia -m occams_razor -o proteins.tsv`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnpia version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnpia")

	rootCmd.AddCommand(
		getCompileCmd(),
		getInferCmd(),
		getCreateCmd(),
		getMigrateCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// Messages of bootstrap stay in the log file.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	_ = iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Env variables are bound one by one, so it is clear which of them
	// are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix("GNPIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GNPIA_DATABASE_HOST")
	v.BindEnv("database.port", "GNPIA_DATABASE_PORT")
	v.BindEnv("database.user", "GNPIA_DATABASE_USER")
	v.BindEnv("database.password", "GNPIA_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNPIA_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNPIA_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "GNPIA_DATABASE_BATCH_SIZE")

	// Inference configuration
	v.BindEnv("inference.method", "GNPIA_INFERENCE_METHOD")
	v.BindEnv("inference.scoring", "GNPIA_INFERENCE_SCORING")
	v.BindEnv("inference.score", "GNPIA_INFERENCE_SCORE")
	v.BindEnv("inference.psm_for_scoring", "GNPIA_INFERENCE_PSM_FOR_SCORING")
	v.BindEnv("inference.consider_modifications",
		"GNPIA_INFERENCE_CONSIDER_MODIFICATIONS")
	v.BindEnv("inference.psm_set_settings", "GNPIA_INFERENCE_PSM_SET_SETTINGS")
	v.BindEnv("inference.create_psm_sets", "GNPIA_INFERENCE_CREATE_PSM_SETS")

	v.BindEnv("cache.enabled", "GNPIA_CACHE_ENABLED")

	// Log configuration
	v.BindEnv("log.level", "GNPIA_LOG_LEVEL")
	v.BindEnv("log.format", "GNPIA_LOG_FORMAT")
	v.BindEnv("log.destination", "GNPIA_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNPIA_JOBS_NUMBER")

	v.AutomaticEnv()
}
