package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tubelens/internal/ipc"
)

func newAskCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask VIDEO_ID QUESTION...",
		Short: "Answer a question about a video using its transcript",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := strings.TrimSpace(args[0])
			query := strings.TrimSpace(strings.Join(args[1:], " "))

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Ask(videoID, query)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Answer)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Answer.Answer)
				if len(resp.Answer.Sources) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Sources:")
					for _, source := range resp.Answer.Sources {
						fmt.Fprintf(out, "  %s\n", source)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	return cmd
}
