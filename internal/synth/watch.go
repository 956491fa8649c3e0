package synth

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/bookcast/internal/library"
)

// defaultSettle is how long a chapter file must be quiet before it is
// picked up. The splitter writes files incrementally, so reacting to the
// first event would synthesize half a chapter.
const defaultSettle = 2 * time.Second

// Watch follows the chapters directory and synthesizes audio for chapter
// files as they appear or change. Serialized books gain chapters over time,
// so this keeps a long-lived narration session current without rescanning.
// Only ids within [start, end] are picked up (end 0 means no upper bound),
// matching the range of the initial pass. It blocks until ctx is cancelled.
func (s *Stage) Watch(ctx context.Context, start, end int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.store.ChaptersDir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.store.ChaptersDir(), err)
	}

	s.logger.Info("watching for new chapters", "dir", s.store.ChaptersDir())

	pending := make(map[int]time.Time)
	ticker := time.NewTicker(s.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			id, ok := library.ParseChapterFilename(filepath.Base(ev.Name))
			if !ok {
				continue
			}
			if id < start || (end > 0 && id > end) {
				continue
			}
			pending[id] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			for id, last := range pending {
				if time.Since(last) < s.settle {
					continue
				}
				delete(pending, id)

				if !s.overwrite && s.store.HasAudio(id) {
					continue
				}
				ch := library.Chapter{ID: id, Path: s.store.ChapterPath(id)}
				if err := s.synthesize(ctx, ch); err != nil {
					s.logger.Error("chapter failed", "chapter", id, "error", err)
				}
			}
		}
	}
}
