package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgard/outing/internal/llm"
	"github.com/edgard/outing/internal/planner"
	"github.com/edgard/outing/internal/tools"
)

// apiKeyEnv is read when --api-key is not given.
const apiKeyEnv = "OUTING_API_KEY"

func newPlanCmd(opts *rootOptions) *cobra.Command {
	fields := &fieldFlags{}
	var apiKey string
	var save bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Ask the model for an outing plan and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnv)
			}

			svc := planner.NewService(llm.NewFactory(cfg.LLM, log), tools.Default(), log)
			res, err := svc.Submit(cmd.Context(), planner.Submission{
				Credential: llm.Credential(apiKey),
				Mood:       fields.mood,
				Genres:     fields.genres,
				TimeSlot:   fields.timeSlot,
				Location:   fields.location,
			})
			if err != nil {
				return err
			}
			if res.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", res.Warning)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Plan)
			if save {
				if err := os.WriteFile(res.Filename, []byte(res.Plan), 0o600); err != nil {
					return fmt.Errorf("failed to save plan: %w", err)
				}
				log.Info("Plan saved", "file", res.Filename)
			}
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default $"+apiKeyEnv+")")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the plan to outing_plan_<date>.txt")
	return cmd
}
