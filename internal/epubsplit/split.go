package epubsplit

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/bookcast/internal/library"
)

var (
	chapterWordPattern = regexp.MustCompile(`(?i)chapter\s+(\d+)`)
	leadingNumPattern  = regexp.MustCompile(`^(\d+)`)
	titlePrefixPattern = regexp.MustCompile(`(?i)^chapter\s+\d+\s*[:,.\-]?\s*`)
)

// chapterNumber extracts a chapter id from a TOC title: "Chapter 12: Duel"
// and "12. Duel" both yield 12. Front matter and appendices carry no number
// and are skipped by the caller.
func chapterNumber(title string) (int, bool) {
	if m := chapterWordPattern.FindStringSubmatch(title); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := leadingNumPattern.FindStringSubmatch(strings.TrimSpace(title)); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

// cleanTitle removes any "Chapter N" prefix so the stored header does not
// repeat the number twice.
func cleanTitle(title string) string {
	return strings.TrimSpace(titlePrefixPattern.ReplaceAllString(strings.TrimSpace(title), ""))
}

// minSpineChapterChars filters covers, title pages, and other short spine
// documents when falling back to reading order.
const minSpineChapterChars = 100

// Split reads the EPUB at epubPath and writes one text file per numbered
// chapter into the store. Chapters are found via the table of contents;
// books without one fall back to spine order with sequential numbering.
// Existing chapter files are overwritten, re-splitting is harmless.
func Split(ctx context.Context, epubPath string, store *library.Store, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("stage", "split")

	b, err := openBook(epubPath)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	if len(b.toc) > 0 {
		return splitByTOC(ctx, b, store, logger)
	}

	logger.Warn("no table of contents found, falling back to spine order")
	return splitBySpine(ctx, b, store, logger)
}

func splitByTOC(ctx context.Context, b *book, store *library.Store, logger *slog.Logger) (int, error) {
	count := 0
	for _, entry := range b.toc {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		id, ok := chapterNumber(entry.Title)
		if !ok {
			logger.Debug("skipping unnumbered TOC entry", "title", entry.Title)
			continue
		}

		data, err := b.readFile(b.resolve(entry.Href))
		if err != nil {
			logger.Warn("failed to read chapter document", "chapter", id, "href", entry.Href, "error", err)
			continue
		}

		text := stripPromos(htmlToText(data))
		if text == "" {
			logger.Warn("chapter document is empty", "chapter", id, "href", entry.Href)
			continue
		}

		header := fmt.Sprintf("Chapter %d", id)
		if title := cleanTitle(entry.Title); title != "" {
			header = fmt.Sprintf("Chapter %d, %s", id, title)
		}

		if err := store.WriteChapter(id, header, text); err != nil {
			return count, fmt.Errorf("failed to write chapter %d: %w", id, err)
		}
		count++
		logger.Info("wrote chapter", "chapter", id, "title", header, "chars", len(text))
	}

	if count == 0 {
		return 0, fmt.Errorf("no numbered chapters found in table of contents")
	}
	return count, nil
}

func splitBySpine(ctx context.Context, b *book, store *library.Store, logger *slog.Logger) (int, error) {
	count := 0
	for _, href := range b.spine {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		data, err := b.readFile(href)
		if err != nil {
			logger.Warn("failed to read spine document", "href", href, "error", err)
			continue
		}

		text := stripPromos(htmlToText(data))
		if len(text) < minSpineChapterChars {
			logger.Debug("skipping short spine document", "href", href, "chars", len(text))
			continue
		}

		id := count + 1
		if err := store.WriteChapter(id, fmt.Sprintf("Chapter %d", id), text); err != nil {
			return count, fmt.Errorf("failed to write chapter %d: %w", id, err)
		}
		count++
		logger.Info("wrote chapter", "chapter", id, "chars", len(text))
	}

	if count == 0 {
		return 0, fmt.Errorf("no chapter content found in EPUB")
	}
	return count, nil
}
