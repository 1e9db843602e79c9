package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/app"
	"github.com/yufin/yufin/internal/config"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/screens/lessons"
	"github.com/yufin/yufin/internal/server"
)

var playCmd = &cobra.Command{
	Use:   "play [lesson-id]",
	Short: "Play lessons in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runPlay(cmd, id)
	},
}

// backend is what the player needs from either the API or the local store.
type backend interface {
	lesson.Source
	lesson.Sink
	lessons.Catalog
}

// runPlay builds the lesson backend and launches the TUI.
func runPlay(cmd *cobra.Command, lessonID string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so logs go to a file.
	if cfg.Log.Path == "" {
		cfg.Log.Path = config.DefaultLogPath()
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	be, closeFn, err := openBackend(cmd, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	ctrl := lesson.New(be, be, lesson.Config{UserID: cfg.UserID, Timers: cfg.Timers}, log)
	log.Info("player starting", "user_id", cfg.UserID, "offline", cfg.Offline, "lesson_id", lessonID)

	return app.Run(app.Options{
		Catalog:    be,
		Controller: ctrl,
		UserID:     cfg.UserID,
		LessonID:   lessonID,
		Splash:     !noSplash,
	})
}

// openBackend returns the HTTP client, or the local store adapter when
// playing offline.
func openBackend(cmd *cobra.Command, cfg config.Config, log *logger.Logger) (backend, func(), error) {
	if !cfg.Offline {
		client, err := api.New(api.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
		if err != nil {
			return nil, nil, fmt.Errorf("create API client: %w", err)
		}
		return client, func() {}, nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := st.EnsureUser(cmd.Context(), cfg.UserID, cfg.UserName); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("ensure user: %w", err)
	}
	local := server.NewLocal(st, rewards.NewService(st, log))
	return local, func() { st.Close() }, nil
}
