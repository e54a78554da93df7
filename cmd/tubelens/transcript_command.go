package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tubelens/internal/ipc"
)

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var manualFile string
	var saveDefault bool

	cmd := &cobra.Command{
		Use:   "transcript VIDEO_ID",
		Short: "Fetch a video transcript",
		Long: "Fetch a video transcript through the acquisition pipeline. " +
			"With --manual-file the file contents are registered as a pasted " +
			"transcript for the video instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := strings.TrimSpace(args[0])

			return ctx.withClient(func(client *ipc.Client) error {
				var resp *ipc.TranscriptResponse
				var err error
				if manualFile != "" {
					data, readErr := os.ReadFile(manualFile)
					if readErr != nil {
						return fmt.Errorf("read manual transcript: %w", readErr)
					}
					resp, err = client.UseManualTranscript(videoID, string(data), saveDefault)
				} else {
					resp, err = client.GetTranscript(videoID)
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Result)
				}

				out := cmd.OutOrStdout()
				result := resp.Result
				fmt.Fprintf(out, "Method: %s\n", result.Method)
				if len(result.Languages) > 0 {
					fmt.Fprintf(out, "Languages: %s\n", strings.Join(result.Languages, ", "))
				}
				if len(result.MissingLanguages) > 0 {
					fmt.Fprintf(out, "Missing: %s\n", strings.Join(result.MissingLanguages, ", "))
				}
				if result.HasLimitedSupport {
					fmt.Fprintln(out, "Note: some languages have limited auto-caption support")
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, result.Transcript)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	cmd.Flags().StringVar(&manualFile, "manual-file", "", "Register the file contents as a pasted transcript")
	cmd.Flags().BoolVar(&saveDefault, "save-default", false, "Persist the manual transcript as the default")
	return cmd
}
