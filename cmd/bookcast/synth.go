package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/library"
	"github.com/jackzampolin/bookcast/internal/synth"
)

var (
	synthStart int
	synthEnd   int
	synthWatch bool
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize audio for chapters that do not have it yet",
	Long: `Synth converts chapter text files into per-chapter MP3s through the OpenAI
speech API. Chapters whose audio already exists are skipped, so rerunning
after an interruption or a partial failure only processes what is missing.

With --watch the command keeps running after the initial pass and
synthesizes new chapter files as they appear in the chapters directory.

Examples:
  bookcast synth -p mybook
  bookcast synth -p mybook --start 10 --end 20
  bookcast synth -p mybook --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}

		summary, stage, err := synthesizeRange(cmd.Context(), a, synthStart, synthEnd)
		if err != nil {
			return err
		}

		if synthWatch {
			if err := stage.Watch(cmd.Context(), synthStart, synthEnd); err != nil {
				return err
			}
		}
		// Failures from the initial pass survive watch mode, so a
		// Ctrl-C'd session still exits with the partial status.
		if summary.Partial() {
			return fmt.Errorf("%w: %d chapters failed to synthesize", errPartial, len(summary.Failed))
		}
		return nil
	},
}

// synthesizeRange runs one synthesis pass over the chapter files in
// [start, end] (end 0 means unbounded) and returns the stage for watch mode.
func synthesizeRange(ctx context.Context, a *app, start, end int) (synth.Summary, *synth.Stage, error) {
	client, err := a.ttsClient()
	if err != nil {
		return synth.Summary{}, nil, err
	}

	stage := synth.New(synth.Config{
		Store:       a.store,
		Client:      client,
		Logger:      a.logger,
		Concurrency: a.cfg.Synthesis.Concurrency,
		Attempts:    a.cfg.Synthesis.MaxRetries,
	})

	chapters, err := a.store.ScanChapters()
	if err != nil {
		return synth.Summary{}, nil, err
	}
	chapters = library.FilterRange(chapters, start, end)
	if len(chapters) == 0 && !synthWatch {
		return synth.Summary{}, nil, fmt.Errorf("no chapter files found in %s; run split first", a.cfg.Dirs.Chapters)
	}

	return stage.Run(ctx, chapters), stage, nil
}

func init() {
	synthCmd.Flags().IntVar(&synthStart, "start", 1, "first chapter to synthesize")
	synthCmd.Flags().IntVar(&synthEnd, "end", 0, "last chapter to synthesize (0 = no limit)")
	synthCmd.Flags().BoolVar(&synthWatch, "watch", false, "keep running and synthesize chapters as they appear")

	rootCmd.AddCommand(synthCmd)
}
