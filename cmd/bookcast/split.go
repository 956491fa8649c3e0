package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/epubsplit"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the project's EPUB into chapter text files",
	Long: `Split reads the project's EPUB and writes one ch_<n>.txt file per numbered
chapter into the chapters directory. Chapter numbers come from the book's
table of contents; books without one fall back to spine order.

Re-splitting overwrites chapter text but never touches audio or video
artifacts.

Examples:
  bookcast split -p mybook`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		if a.project.EpubFile == "" {
			return fmt.Errorf("project %q has no epub_file configured", projectID)
		}

		count, err := epubsplit.Split(cmd.Context(), a.project.EpubFile, a.store, a.logger)
		if err != nil {
			return err
		}

		a.logger.Info("split finished", "epub", a.project.EpubFile, "chapters", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
}
