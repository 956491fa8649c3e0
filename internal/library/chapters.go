package library

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Chapter is one unit of work: a numbered text file produced by the splitter.
type Chapter struct {
	ID   int
	Path string
}

var chapterFilePattern = regexp.MustCompile(`^ch_(\d+)\.txt$`)

// ParseChapterFilename extracts the chapter id from a ch_<n>.txt filename.
func ParseChapterFilename(name string) (int, bool) {
	m := chapterFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// ScanChapters lists chapter files in ascending id order. Files that do not
// match the ch_<n>.txt naming are ignored.
func (s *Store) ScanChapters() ([]Chapter, error) {
	entries, err := os.ReadDir(s.chaptersDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapters directory %s: %w", s.chaptersDir, err)
	}

	var chapters []Chapter
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := ParseChapterFilename(entry.Name())
		if !ok {
			continue
		}
		chapters = append(chapters, Chapter{ID: id, Path: s.ChapterPath(id)})
	}

	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })
	return chapters, nil
}

// ScanAudio lists chapter ids that have an audio artifact, ascending.
func (s *Store) ScanAudio() ([]int, error) {
	entries, err := os.ReadDir(s.audioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory %s: %w", s.audioDir, err)
	}

	var ids []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "ch_") || !strings.HasSuffix(name, ".mp3") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ch_"), ".mp3"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids, nil
}

// ChapterText reads the full text of a chapter.
func (s *Store) ChapterText(id int) (string, error) {
	data, err := os.ReadFile(s.ChapterPath(id))
	if err != nil {
		return "", fmt.Errorf("failed to read chapter %d: %w", id, err)
	}
	return string(data), nil
}

// ChapterTitle reads the first line of a chapter file. The title is used for
// reporting only; a missing or empty file yields "Unknown Title".
func (s *Store) ChapterTitle(id int) string {
	f, err := os.Open(s.ChapterPath(id))
	if err != nil {
		return "Unknown Title"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return "Unknown Title"
}

// FilterRange keeps chapters with start <= id <= end. end == 0 means no
// upper bound.
func FilterRange(chapters []Chapter, start, end int) []Chapter {
	var out []Chapter
	for _, ch := range chapters {
		if ch.ID < start {
			continue
		}
		if end > 0 && ch.ID > end {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// ReadRegenList parses a regeneration list: one chapter id per line, blank
// lines skipped. A non-numeric line is an error naming the offending line.
func ReadRegenList(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regeneration list %s: %w", path, err)
	}

	var ids []int
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("invalid chapter id %q on line %d of %s", line, i+1, path)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
