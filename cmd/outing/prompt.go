package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/outing/internal/outing"
)

func newPromptCmd() *cobra.Command {
	fields := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := outing.NewRequest(fields.mood, fields.genres, fields.timeSlot, fields.location)
			_, err := fmt.Fprint(cmd.OutOrStdout(), req.Prompt())
			return err
		},
	}
	fields.register(cmd)
	return cmd
}
