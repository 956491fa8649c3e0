package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/media"
	"github.com/jackzampolin/bookcast/internal/report"
)

var durationsOut string

var durationsCmd = &cobra.Command{
	Use:   "durations",
	Short: "Write a CSV of chapter audio durations and flag suspect files",
	Long: `Durations probes every synthesized chapter with ffprobe and writes a CSV of
chapter, title, duration, and file size. Files under the suspicious size
threshold are flagged as likely truncated; feed their ids to regen.

Examples:
  bookcast durations -p mybook
  bookcast durations -p mybook --out /tmp/durations.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		if err := media.CheckTools(); err != nil {
			return err
		}

		rep, err := report.Generate(cmd.Context(), report.Config{
			Store:            a.store,
			Prober:           media.FFmpeg{},
			Logger:           a.logger,
			SuspiciousSizeMB: a.cfg.Report.SuspiciousSizeMB,
		}, durationsOut)
		if err != nil {
			return err
		}

		if len(rep.Suspicious) > 0 {
			a.logger.Warn("some chapters look truncated, consider regenerating",
				"chapters", rep.Suspicious,
				"hint", "add the ids to "+defaultRegenList+" and run regen")
		}
		return nil
	},
}

func init() {
	durationsCmd.Flags().StringVar(&durationsOut, "out", "chapter_durations.csv", "output CSV path")

	rootCmd.AddCommand(durationsCmd)
}
