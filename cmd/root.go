package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/config"
	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "yufin",
	Short: "Financial literacy lessons in the terminal",
	Long:  "YüFin plays short money lessons (choices, matching, math and shopping) and tracks coins, levels and achievements.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/yufin/config.toml)")
	pf.String("db", "", "Path to SQLite database file (overrides YUFIN_DB)")
	pf.String("api", "", "Base URL of the lesson API (overrides YUFIN_API_URL)")
	pf.String("user", "", "Learner id completions are recorded for")
	pf.Bool("offline", false, "Play against the local database instead of the API")
	pf.String("log-format", "", "Log format: console or json")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("no-splash", false, "Start on the lesson picker without the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config file, the environment and then the
// persistent flags, highest last.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := map[string]*string{
		"db":         &cfg.DBPath,
		"api":        &cfg.APIBaseURL,
		"user":       &cfg.UserID,
		"log-format": &cfg.Log.Format,
		"log-level":  &cfg.Log.Level,
	}
	for name, dst := range flags {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline, _ = cmd.Flags().GetBool("offline")
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
