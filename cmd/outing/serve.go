package main

import (
	"github.com/spf13/cobra"

	"github.com/edgard/outing/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the outing planner web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}

			log.Info("Starting outing planner...", "addr", cfg.Server.Addr, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
			if err := app.New(log, cfg).Run(cmd.Context()); err != nil {
				log.Error("Outing planner stopped due to error", "error", err)
				return err
			}
			log.Info("Outing planner stopped gracefully.")
			return nil
		},
	}
}
