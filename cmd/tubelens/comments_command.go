package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tubelens/internal/ipc"
)

func newCommentsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "comments VIDEO_ID",
		Short: "Analyze comment sentiment for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := strings.TrimSpace(args[0])

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.AnalyzeComments(videoID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Analysis)
				}

				out := cmd.OutOrStdout()
				analysis := resp.Analysis
				rows := [][]string{
					{"Fetched", strconv.Itoa(analysis.TotalFetched)},
					{"Analyzed", strconv.Itoa(analysis.TotalAnalyzed)},
					{"Positive", strconv.Itoa(analysis.Sentiment.Positive)},
					{"Negative", strconv.Itoa(analysis.Sentiment.Negative)},
					{"Neutral", strconv.Itoa(analysis.Sentiment.Neutral)},
				}
				if analysis.DegradedBatches > 0 {
					rows = append(rows, []string{"Degraded batches", strconv.Itoa(analysis.DegradedBatches)})
				}
				fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

				if len(analysis.Themes) > 0 {
					fmt.Fprintln(out, "Themes:")
					for _, theme := range analysis.Themes {
						fmt.Fprintf(out, "  - %s\n", theme)
					}
				}
				if len(analysis.SampleComments) > 0 {
					fmt.Fprintln(out, "Sample comments:")
					for _, comment := range analysis.SampleComments {
						fmt.Fprintf(out, "  %s: %s\n", comment.Author, comment.Text)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON")
	return cmd
}
