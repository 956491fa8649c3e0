// Package render turns duration-bounded chapter groups into still-image
// videos, one ffmpeg process per group, bounded by a CPU-sized worker pool.
package render

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jackzampolin/bookcast/internal/group"
	"github.com/jackzampolin/bookcast/internal/library"
	"github.com/jackzampolin/bookcast/internal/pool"
)

// Renderer is the render collaborator: one static image plus ordered audio
// inputs muxed into a video at outPath.
type Renderer interface {
	Render(ctx context.Context, imagePath string, audioPaths []string, outPath string) error
}

// Config configures a render stage.
type Config struct {
	Store    *library.Store
	Renderer Renderer
	Logger   *slog.Logger

	// Workers is the ffmpeg process count; 0 means one per CPU core.
	Workers int
}

// Stage renders chapter groups into video artifacts.
type Stage struct {
	store    *library.Store
	renderer Renderer
	logger   *slog.Logger
	workers  int
}

// New creates a render stage.
func New(cfg Config) *Stage {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		logger:   logger.With("stage", "render"),
		workers:  pool.CPUWorkers(cfg.Workers),
	}
}

// Summary is the end-of-run report for a render pass, keyed by group key.
type Summary struct {
	Completed []string
	Skipped   []string
	Failed    []string
}

// Partial reports whether some groups failed while others completed or were
// skipped.
func (s Summary) Partial() bool {
	return len(s.Failed) > 0
}

// Run renders every group whose video artifact does not already exist.
// Groups are independent: a failed render is reported and its siblings
// continue. Render failures are not retried; encoding errors are
// deterministic, so a retry would fail the same way.
func (s *Stage) Run(ctx context.Context, imagePath string, groups []group.Group) Summary {
	var summary Summary
	var pending []group.Group

	for _, g := range groups {
		if s.store.HasVideo(g.StartID, g.EndID) {
			s.logger.Info("skipping group, video already exists", "group", g.Key())
			summary.Skipped = append(summary.Skipped, g.Key())
			continue
		}
		pending = append(pending, g)
	}

	if len(pending) == 0 {
		s.logger.Info("nothing to render", "skipped", len(summary.Skipped))
		return summary
	}

	s.logger.Info("starting render",
		"groups", len(pending),
		"skipped", len(summary.Skipped),
		"workers", s.workers)

	results := pool.Run(ctx, s.workers, pending, func(ctx context.Context, g group.Group) error {
		s.logger.Info("rendering group",
			"group", g.Key(),
			"chapters", len(g.Tracks),
			"minutes", int(g.TotalSeconds/60))
		return s.renderer.Render(ctx, imagePath, g.Paths(), s.store.VideoPath(g.StartID, g.EndID))
	})

	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("group failed", "group", r.Item.Key(), "error", r.Err)
			summary.Failed = append(summary.Failed, r.Item.Key())
			continue
		}
		s.logger.Info("group finished", "group", r.Item.Key())
		summary.Completed = append(summary.Completed, r.Item.Key())
	}

	sort.Strings(summary.Completed)
	sort.Strings(summary.Failed)

	s.logger.Info("render finished",
		"completed", len(summary.Completed),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed))
	return summary
}
