package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/library"
	"github.com/jackzampolin/bookcast/internal/synth"
)

const defaultRegenList = "chapters_to_regenerate.txt"

var regenCmd = &cobra.Command{
	Use:   "regen [listfile]",
	Short: "Resynthesize the chapters named in a regeneration list",
	Long: `Regen resynthesizes specific chapters, overwriting their existing audio.
The list file names one chapter id per line; the suspicious column of the
durations report is the usual source.

Regeneration runs at a lower concurrency than synth so the replacement
audio does not get truncated by the same service-side load that corrupted
the originals.

Examples:
  bookcast regen -p mybook                       # reads chapters_to_regenerate.txt
  bookcast regen -p mybook my_bad_chapters.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}

		listPath := defaultRegenList
		if len(args) == 1 {
			listPath = args[0]
		}

		ids, err := library.ReadRegenList(listPath)
		if err != nil {
			return err
		}

		// Ids without a text file are still dispatched: the stage fails
		// them, so they show up in the summary and the exit status
		// instead of vanishing from the run.
		var chapters []library.Chapter
		for _, id := range ids {
			if !a.store.HasChapter(id) {
				a.logger.Warn("chapter has no text file", "chapter", id)
			}
			chapters = append(chapters, library.Chapter{ID: id, Path: a.store.ChapterPath(id)})
		}
		if len(chapters) == 0 {
			return fmt.Errorf("no chapters listed in %s", listPath)
		}

		client, err := a.ttsClient()
		if err != nil {
			return err
		}

		stage := synth.New(synth.Config{
			Store:       a.store,
			Client:      client,
			Logger:      a.logger,
			Concurrency: a.cfg.Synthesis.RegenConcurrency,
			Attempts:    a.cfg.Synthesis.MaxRetries,
			Overwrite:   true,
		})

		summary := stage.Run(cmd.Context(), chapters)
		if summary.Partial() {
			return fmt.Errorf("%w: %d chapters failed to regenerate", errPartial, len(summary.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regenCmd)
}
