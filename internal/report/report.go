// Package report writes the chapter durations CSV and flags audio files
// small enough to suggest the TTS service truncated them.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/bookcast/internal/library"
)

// Prober is the duration/size probe collaborator.
type Prober interface {
	Probe(ctx context.Context, path string) (seconds float64, sizeBytes int64, err error)
}

// Row is one chapter's line in the durations report.
type Row struct {
	Chapter    int
	Title      string
	Duration   string // m:ss
	Seconds    float64
	SizeMB     float64
	Suspicious bool
}

// Report summarizes a durations pass.
type Report struct {
	Rows         []Row
	TotalSeconds float64

	// Suspicious lists chapter ids whose audio is under the size
	// threshold, in id order. They double as a starter regeneration list.
	Suspicious []int
}

// Config configures report generation.
type Config struct {
	Store  *library.Store
	Prober Prober
	Logger *slog.Logger

	// SuspiciousSizeMB flags audio files smaller than this.
	SuspiciousSizeMB float64
}

// Generate probes every audio artifact in id order and writes the CSV to
// outPath. A chapter that fails to probe is reported with zero duration
// rather than aborting the report.
func Generate(ctx context.Context, cfg Config, outPath string) (*Report, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ids, err := cfg.Store.ScanAudio()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no audio files found")
	}

	rep := &Report{}
	for _, id := range ids {
		path := cfg.Store.AudioPath(id)

		seconds, size, err := cfg.Prober.Probe(ctx, path)
		if err != nil {
			logger.Warn("failed to probe audio", "chapter", id, "error", err)
			seconds, size = 0, 0
		}

		sizeMB := float64(size) / (1024 * 1024)
		row := Row{
			Chapter:    id,
			Title:      cfg.Store.ChapterTitle(id),
			Duration:   formatDuration(seconds),
			Seconds:    seconds,
			SizeMB:     sizeMB,
			Suspicious: sizeMB < cfg.SuspiciousSizeMB,
		}
		rep.Rows = append(rep.Rows, row)
		rep.TotalSeconds += seconds

		if row.Suspicious {
			rep.Suspicious = append(rep.Suspicious, id)
			logger.Warn("suspiciously small audio file",
				"chapter", id,
				"size_mb", fmt.Sprintf("%.2f", sizeMB),
				"duration", row.Duration)
		}
	}

	if err := writeCSV(outPath, rep.Rows); err != nil {
		return nil, err
	}

	logger.Info("durations report written",
		"path", outPath,
		"chapters", len(rep.Rows),
		"total_minutes", int(rep.TotalSeconds/60),
		"suspicious", len(rep.Suspicious))
	return rep, nil
}

func writeCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"chapter", "title", "duration", "size_mb"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.Chapter),
			row.Title,
			row.Duration,
			fmt.Sprintf("%.2f", row.SizeMB),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
