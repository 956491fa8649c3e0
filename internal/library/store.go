// Package library manages the on-disk layout of a book project: chapter text
// files, synthesized audio, and rendered videos. Path existence is the sole
// completion record for audio and video artifacts; a rerun skips any key
// whose output is already present.
package library

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store maps chapter and group keys to their artifact paths.
type Store struct {
	chaptersDir string
	audioDir    string
	videosDir   string
}

// NewStore creates a Store over the three artifact directories.
func NewStore(chaptersDir, audioDir, videosDir string) *Store {
	return &Store{
		chaptersDir: chaptersDir,
		audioDir:    audioDir,
		videosDir:   videosDir,
	}
}

// ChaptersDir returns the chapter text directory.
func (s *Store) ChaptersDir() string { return s.chaptersDir }

// EnsureDirs creates the artifact directories if missing.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.chaptersDir, s.audioDir, s.videosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// ChapterPath returns the text file path for a chapter id.
func (s *Store) ChapterPath(id int) string {
	return filepath.Join(s.chaptersDir, fmt.Sprintf("ch_%d.txt", id))
}

// AudioPath returns the audio artifact path for a chapter id.
func (s *Store) AudioPath(id int) string {
	return filepath.Join(s.audioDir, fmt.Sprintf("ch_%d.mp3", id))
}

// VideoPath returns the video artifact path for a group key.
func (s *Store) VideoPath(startID, endID int) string {
	return filepath.Join(s.videosDir, fmt.Sprintf("%d_%d.mp4", startID, endID))
}

// HasChapter reports whether the chapter text file exists.
func (s *Store) HasChapter(id int) bool {
	return pathExists(s.ChapterPath(id))
}

// HasAudio reports whether the audio artifact for a chapter exists.
func (s *Store) HasAudio(id int) bool {
	return pathExists(s.AudioPath(id))
}

// HasVideo reports whether the video artifact for a group exists.
func (s *Store) HasVideo(startID, endID int) bool {
	return pathExists(s.VideoPath(startID, endID))
}

// WriteAudio publishes an audio artifact. The bytes are written to a
// temporary file and renamed into place so a crash mid-write never leaves a
// partial artifact at the final path.
func (s *Store) WriteAudio(id int, data []byte) error {
	return atomicWrite(s.AudioPath(id), data)
}

// WriteChapter publishes a chapter text file with the reporting title on the
// first line.
func (s *Store) WriteChapter(id int, title, text string) error {
	content := fmt.Sprintf("%s\n\n%s", title, text)
	return atomicWrite(s.ChapterPath(id), []byte(content))
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
