package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"icane/internal/adapters/filesystem"
	"icane/internal/config"
	"icane/internal/errors"
	"icane/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	mirror  *filesystem.Mirror
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "icane-cli",
	Short: "CLI for the ICANE statistical metadata and data payloads",
	Long: `icane-cli reads ICANE API payloads from a local mirror, a file or stdin
and flattens them into tables.

Data payloads become one row per observation (dimension keys then value).
Metadata hierarchies become one digest row per node in pre-order.
Rows can be printed, written as CSV or stored as export runs in SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return err
		}
		if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		mirror = filesystem.NewMirror(cfg.Mirror.Root, cfg.Leaves())
		logger.Logger.Debugw("Configuration loaded",
			logger.FieldPath, cfg.Mirror.Root,
			"database", cfg.Database.Path,
			"format", cfg.Output.Format)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func loadConfig() error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(config.ExpandHome(config.DefaultConfigFile)); err == nil {
			path = config.DefaultConfigFile
		}
	}
	if path != "" {
		v.SetConfigFile(config.ExpandHome(path))
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "failed to read config file %s", path),
				"create one with 'icane-cli config init'",
			)
		}
	}

	c, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.FlattenHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	d := config.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultConfigFile+")")
	flags.StringP("mirror", "m", d.Mirror.Root, "directory holding mirrored API payloads")
	flags.StringP("output", "o", d.Output.Format, "output format: table, csv, json or yaml")
	flags.String("delimiter", d.Output.Delimiter, "CSV delimiter")
	flags.String("db", d.Database.Path, "SQLite database for export runs and the search index")
	flags.StringSlice("leaf-types", d.LeafTypes, "node types that end metadata descent")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	flags.Bool("log-json", d.Log.JSON, "log as JSON")

	for key, name := range map[string]string{
		"mirror.root":      "mirror",
		"output.format":    "output",
		"output.delimiter": "delimiter",
		"database.path":    "db",
		"leaf_types":       "leaf-types",
		"log.level":        "log-level",
		"log.json":         "log-json",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(name)))
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// GetMirror returns the mirror built from the configuration
func GetMirror() *filesystem.Mirror {
	return mirror
}
