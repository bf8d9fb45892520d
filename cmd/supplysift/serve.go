package main

import (
	"github.com/spf13/cobra"

	"github.com/supplysift/supplysift/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the websocket API for triggering batches and streaming progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, analyzer, batch, err := buildCollaborators(cfg)
		if err != nil {
			return err
		}

		srv := server.NewWSServer(server.Config{Port: cfg.Server.Port}, store, analyzer, batch)
		return srv.ListenAndServe()
	},
}
