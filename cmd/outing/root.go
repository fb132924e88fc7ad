package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edgard/outing/internal/config"
	"github.com/edgard/outing/internal/logger"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "outing",
		Short:         "Gently nudges you outdoors with an AI-made outing plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (default ./config.yaml)")

	cmd.AddCommand(
		newServeCmd(opts),
		newPromptCmd(),
		newPlanCmd(opts),
	)
	return cmd
}

// setup loads the configuration and installs the configured logger.
func (o *rootOptions) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", o.configPath, "error", err)
		return nil, nil, err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Debug("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)
	return cfg, log, nil
}

// fieldFlags are the form fields shared by prompt and plan.
type fieldFlags struct {
	mood     string
	genres   []string
	timeSlot string
	location string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mood, "mood", config.DefaultMoods[0], "Current mood")
	cmd.Flags().StringArrayVar(&f.genres, "genre", nil, "Genre of interest (repeatable, taken verbatim)")
	cmd.Flags().StringVar(&f.timeSlot, "time", config.DefaultTimeSlots[1], "Time slot")
	cmd.Flags().StringVar(&f.location, "location", "", "Starting point")
}
