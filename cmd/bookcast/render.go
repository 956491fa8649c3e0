package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/group"
	"github.com/jackzampolin/bookcast/internal/media"
	"github.com/jackzampolin/bookcast/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render chapter audio into target-length videos",
	Long: `Render probes every synthesized chapter, packs consecutive chapters into
groups of roughly the project's target video length, and renders each group
as a still-image video over the cover art. Groups whose video already
exists are skipped.

Examples:
  bookcast render -p mybook`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}

		summary, err := renderProject(cmd.Context(), a)
		if err != nil {
			return err
		}
		if summary.Partial() {
			return fmt.Errorf("%w: %d groups failed to render", errPartial, len(summary.Failed))
		}
		return nil
	},
}

// renderProject runs one probe → group → render pass for the app's project.
func renderProject(ctx context.Context, a *app) (render.Summary, error) {
	if err := media.CheckTools(); err != nil {
		return render.Summary{}, err
	}
	if a.project.CoverImage == "" {
		return render.Summary{}, fmt.Errorf("project %q has no cover_image configured", projectID)
	}
	if _, err := os.Stat(a.project.CoverImage); err != nil {
		return render.Summary{}, fmt.Errorf("cover image not readable: %w", err)
	}

	ids, err := a.store.ScanAudio()
	if err != nil {
		return render.Summary{}, err
	}
	if len(ids) == 0 {
		return render.Summary{}, fmt.Errorf("no audio files found in %s; run synth first", a.cfg.Dirs.Audio)
	}

	ff := media.FFmpeg{}
	tracks := make([]group.Track, 0, len(ids))
	for _, id := range ids {
		path := a.store.AudioPath(id)
		seconds, _, err := ff.Probe(ctx, path)
		if err != nil {
			return render.Summary{}, fmt.Errorf("failed to probe chapter %d: %w", id, err)
		}
		tracks = append(tracks, group.Track{ChapterID: id, Path: path, Seconds: seconds})
	}

	groups := group.Build(tracks, float64(a.project.TargetVideoMinutes)*60)
	a.logger.Info("planned video groups",
		"chapters", len(tracks),
		"groups", len(groups),
		"target_minutes", a.project.TargetVideoMinutes)

	stage := render.New(render.Config{
		Store:    a.store,
		Renderer: ff,
		Logger:   a.logger,
		Workers:  a.cfg.Render.Workers,
	})
	return stage.Run(ctx, a.project.CoverImage, groups), nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
