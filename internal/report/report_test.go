package report

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/bookcast/internal/library"
)

type fakeProber struct {
	seconds map[string]float64
	fail    map[string]bool
}

func (f *fakeProber) Probe(_ context.Context, path string) (float64, int64, error) {
	if f.fail[filepath.Base(path)] {
		return 0, 0, errors.New("probe failed")
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return f.seconds[filepath.Base(path)], info.Size(), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	store := library.NewStore(
		filepath.Join(dir, "chapters"),
		filepath.Join(dir, "audio"),
		filepath.Join(dir, "videos"),
	)
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}

	// Chapter 1: normal sized. Chapter 2: tiny, should be flagged.
	if err := store.WriteChapter(1, "Chapter 1, Genesis", "text"); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}
	if err := store.WriteChapter(2, "Chapter 2, Exodus", "text"); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}
	if err := store.WriteAudio(1, make([]byte, 4*1024*1024)); err != nil {
		t.Fatalf("WriteAudio: %v", err)
	}
	if err := store.WriteAudio(2, make([]byte, 100)); err != nil {
		t.Fatalf("WriteAudio: %v", err)
	}

	prober := &fakeProber{
		seconds: map[string]float64{
			"ch_1.mp3": 125, // 2:05
			"ch_2.mp3": 10,
		},
		fail: map[string]bool{},
	}

	outPath := filepath.Join(dir, "chapter_durations.csv")
	rep, err := Generate(context.Background(), Config{
		Store:            store,
		Prober:           prober,
		Logger:           testLogger(),
		SuspiciousSizeMB: 3,
	}, outPath)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(rep.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rep.Rows))
	}
	if rep.Rows[0].Chapter != 1 || rep.Rows[0].Duration != "2:05" || rep.Rows[0].Suspicious {
		t.Fatalf("row 0 = %+v", rep.Rows[0])
	}
	if rep.Rows[1].Chapter != 2 || !rep.Rows[1].Suspicious {
		t.Fatalf("row 1 = %+v", rep.Rows[1])
	}
	if len(rep.Suspicious) != 1 || rep.Suspicious[0] != 2 {
		t.Fatalf("suspicious = %v", rep.Suspicious)
	}
	if rep.TotalSeconds != 135 {
		t.Fatalf("total seconds = %v", rep.TotalSeconds)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("csv records = %d, want header + 2 rows", len(records))
	}
	if records[0][0] != "chapter" || records[0][3] != "size_mb" {
		t.Fatalf("csv header = %v", records[0])
	}
	if records[1][1] != "Chapter 1, Genesis" {
		t.Fatalf("csv title = %q", records[1][1])
	}
}

func TestGenerateProbeFailureIsPerChapter(t *testing.T) {
	dir := t.TempDir()
	store := library.NewStore(
		filepath.Join(dir, "chapters"),
		filepath.Join(dir, "audio"),
		filepath.Join(dir, "videos"),
	)
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	if err := store.WriteAudio(1, make([]byte, 4*1024*1024)); err != nil {
		t.Fatalf("WriteAudio: %v", err)
	}
	if err := store.WriteAudio(2, make([]byte, 4*1024*1024)); err != nil {
		t.Fatalf("WriteAudio: %v", err)
	}

	prober := &fakeProber{
		seconds: map[string]float64{"ch_2.mp3": 60},
		fail:    map[string]bool{"ch_1.mp3": true},
	}

	rep, err := Generate(context.Background(), Config{
		Store:            store,
		Prober:           prober,
		Logger:           testLogger(),
		SuspiciousSizeMB: 3,
	}, filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rep.Rows[0].Seconds != 0 || rep.Rows[0].Duration != "0:00" {
		t.Fatalf("failed probe row = %+v", rep.Rows[0])
	}
	if rep.Rows[1].Seconds != 60 {
		t.Fatalf("healthy row = %+v", rep.Rows[1])
	}
}

func TestGenerateNoAudioIsFatal(t *testing.T) {
	dir := t.TempDir()
	store := library.NewStore(
		filepath.Join(dir, "chapters"),
		filepath.Join(dir, "audio"),
		filepath.Join(dir, "videos"),
	)
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}

	if _, err := Generate(context.Background(), Config{
		Store:            store,
		Prober:           &fakeProber{},
		Logger:           testLogger(),
		SuspiciousSizeMB: 3,
	}, filepath.Join(dir, "out.csv")); err == nil {
		t.Fatalf("expected error when no audio exists")
	}
}
