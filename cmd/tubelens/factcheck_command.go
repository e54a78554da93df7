package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tubelens/internal/ipc"
)

func newFactCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "factcheck TEXT...",
		Short: "Fact check a claim with the configured provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FactCheck(text)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Result)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Verdict: %s (confidence %.2f)\n", resp.Result.Verdict, resp.Result.Confidence)
				fmt.Fprintln(out, resp.Result.Explanation)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	return cmd
}
