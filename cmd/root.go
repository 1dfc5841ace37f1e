package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/config"
	"github.com/abhisek/lexiq/internal/logging"
	"github.com/abhisek/lexiq/internal/store"
)

var (
	cfg      *config.Config
	logger   = logging.Discard()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "lexiq",
	Short: "Vocabulary quiz scheduler",
	Long: "lexiq drills you on your own vocabulary in the terminal. Every entry is asked\n" +
		"once before any entry is asked again, and answers are scored by spelling similarity.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: runStats,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXIQ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/lexiq/config.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "Write diagnostic logs to this file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and builds the logger. Flags override
// values from the config file and environment.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if f, _ := cmd.Flags().GetString("log-file"); f != "" {
		c.Log.File = f
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		c.Log.Level = l
	}
	level, err := config.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}

	log, closeFn, err := logging.Open(c.Log.File, os.Stderr, level)
	if err != nil {
		return err
	}
	cfg, logger, closeLog = c, log, closeFn
	slog.SetDefault(logger)

	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (LEXIQ_DB or config file), then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)
	return st, nil
}
