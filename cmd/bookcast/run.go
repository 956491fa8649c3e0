package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synthesize all chapters, then render all videos",
	Long: `Run executes the full pipeline in one invocation: synthesize audio for every
chapter missing it, then group and render videos. Both stages skip work
whose artifacts already exist, so run is safe to repeat until it exits 0.

Examples:
  bookcast run -p mybook`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}

		synthSummary, _, err := synthesizeRange(cmd.Context(), a, 1, 0)
		if err != nil {
			return err
		}

		renderSummary, err := renderProject(cmd.Context(), a)
		if err != nil {
			return err
		}

		failed := len(synthSummary.Failed) + len(renderSummary.Failed)
		if failed > 0 {
			return fmt.Errorf("%w: %d chapters and %d groups failed",
				errPartial, len(synthSummary.Failed), len(renderSummary.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
