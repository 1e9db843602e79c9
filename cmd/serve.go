package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lessons and progress over HTTP from the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		local := server.NewLocal(st, rewards.NewService(st, log))
		router := server.NewRouter(server.NewHandler(local, log), log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, cfg.ServerAddr, router, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides YUFIN_ADDR)")
}
