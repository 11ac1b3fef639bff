package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/db"
	"github.com/justestif/go-valence-map/internal/web"
)

func newServeCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated map over HTTP for local preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			serverCfg := web.ServerConfig{
				Addr:         cfg.ServeAddr,
				DocumentPath: cfg.OutputPath,
				Logger:       logger,
			}

			if cfg.DatabaseURL != "" {
				database, err := db.New(ctx, cfg.DatabaseURL)
				if err != nil {
					logger.Warn("archive browsing disabled", zap.Error(err))
				} else {
					defer database.Close()
					serverCfg.Runs = database.Runs()
				}
			}

			server, err := web.NewServer(serverCfg)
			if err != nil {
				return err
			}

			colorSuccess.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s/\n", cfg.OutputPath, cfg.ServeAddr)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default 127.0.0.1:8080)")
	return cmd
}
