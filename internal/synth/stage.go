// Package synth drives text-to-speech generation for chapter files: a
// bounded worker pool over pending chapters, exponential-backoff retries per
// chapter, and skip-if-exists resume.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/bookcast/internal/library"
	"github.com/jackzampolin/bookcast/internal/pool"
	"github.com/jackzampolin/bookcast/internal/tts"
)

// Config configures a synthesis stage.
type Config struct {
	Store  *library.Store
	Client tts.Client
	Logger *slog.Logger

	// Concurrency caps in-flight TTS calls. Must be >= 1.
	Concurrency int

	// Attempts is the total attempt count per chapter (default 3).
	Attempts int

	// RetryDelay is the base backoff delay; attempt n waits
	// RetryDelay * 2^n. Defaults to one second.
	RetryDelay time.Duration

	// Settle is how long a watched chapter file must be quiet before
	// watch mode picks it up. Defaults to two seconds.
	Settle time.Duration

	// Overwrite regenerates audio even when the artifact already exists
	// (regen runs).
	Overwrite bool
}

// Stage converts chapter text files into audio artifacts.
type Stage struct {
	store       *library.Store
	client      tts.Client
	logger      *slog.Logger
	concurrency int
	attempts    int
	retryDelay  time.Duration
	settle      time.Duration
	overwrite   bool
}

// New creates a synthesis stage.
func New(cfg Config) *Stage {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Settle <= 0 {
		cfg.Settle = defaultSettle
	}

	return &Stage{
		store:       cfg.Store,
		client:      cfg.Client,
		logger:      logger.With("stage", "synth"),
		concurrency: cfg.Concurrency,
		attempts:    cfg.Attempts,
		retryDelay:  cfg.RetryDelay,
		settle:      cfg.Settle,
		overwrite:   cfg.Overwrite,
	}
}

// Run synthesizes audio for every chapter that does not already have an
// artifact. It blocks until all pending chapters have been processed and
// returns a summary naming completed, skipped, and failed ids. One failing
// chapter never halts its siblings.
func (s *Stage) Run(ctx context.Context, chapters []library.Chapter) Summary {
	var summary Summary
	var pending []library.Chapter

	for _, ch := range chapters {
		if !s.overwrite && s.store.HasAudio(ch.ID) {
			s.logger.Info("skipping chapter, audio already exists", "chapter", ch.ID)
			summary.Skipped = append(summary.Skipped, ch.ID)
			continue
		}
		pending = append(pending, ch)
	}

	if len(pending) == 0 {
		s.logger.Info("nothing to synthesize", "skipped", len(summary.Skipped))
		return summary
	}

	s.logger.Info("starting synthesis",
		"chapters", len(pending),
		"skipped", len(summary.Skipped),
		"workers", s.concurrency)

	results := pool.Run(ctx, s.concurrency, pending, s.synthesize)
	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("chapter failed", "chapter", r.Item.ID, "error", r.Err)
			summary.Failed = append(summary.Failed, r.Item.ID)
			continue
		}
		summary.Completed = append(summary.Completed, r.Item.ID)
	}

	sort.Ints(summary.Completed)
	sort.Ints(summary.Failed)

	s.logger.Info("synthesis finished",
		"completed", len(summary.Completed),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed))
	return summary
}

// synthesize generates audio for one chapter, retrying the TTS call with
// exponential backoff before giving up.
func (s *Stage) synthesize(ctx context.Context, ch library.Chapter) error {
	text, err := s.store.ChapterText(ch.ID)
	if err != nil {
		return err
	}

	s.logger.Info("synthesizing chapter", "chapter", ch.ID, "chars", len(text))

	audio, err := retry.DoWithData(
		func() ([]byte, error) {
			return s.client.Synthesize(ctx, text)
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.attempts)),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Warn("synthesis attempt failed",
				"chapter", ch.ID,
				"attempt", attempt+1,
				"attempts", s.attempts,
				"error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("chapter %d failed after %d attempts: %w", ch.ID, s.attempts, err)
	}

	if err := s.store.WriteAudio(ch.ID, audio); err != nil {
		return err
	}

	s.logger.Info("chapter finished", "chapter", ch.ID, "bytes", len(audio))
	return nil
}
