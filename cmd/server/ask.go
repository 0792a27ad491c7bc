package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Run one request against a fresh in-memory inventory",
	Example: `  stock-assistant ask "add 5 shirts and remove 2 pants"
  stock-assistant ask "how many t-shirts do we have?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.shutdown()

		reply, err := a.service.Ask(cmd.Context(), strings.Join(args, " "))
		out := cmd.OutOrStdout()
		switch reply.Outcome {
		case domain.OutcomeApplied:
			fmt.Fprintln(out, reply.Summary)
		case domain.OutcomeClarify:
			fmt.Fprintln(out, reply.Prompt)
		default:
			fmt.Fprintf(out, "%s: %s\n", reply.Kind, reply.Reason)
		}
		return err
	},
}
