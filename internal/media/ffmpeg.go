// Package media shells out to ffmpeg and ffprobe for the two black-box media
// operations the pipeline needs: probing audio durations and rendering
// still-image videos.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg probes and renders through the ffmpeg and ffprobe binaries.
type FFmpeg struct{}

// CheckTools verifies ffmpeg and ffprobe are on PATH. Missing tools are a
// fatal setup error; the batch must not start without them.
func CheckTools() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return nil
}

// Probe returns an audio file's duration in seconds and its size in bytes.
func (FFmpeg) Probe(ctx context.Context, path string) (float64, int64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	seconds, err := parseProbeDuration(string(output))
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe output for %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return seconds, info.Size(), nil
}

// Render produces a video at outPath: a single static frame held for the
// gap-less concatenation of audioPaths, in order. ffmpeg writes to a
// temporary path which is renamed only on success, so a killed render never
// leaves a partial artifact that a rerun would mistake for complete.
func (FFmpeg) Render(ctx context.Context, imagePath string, audioPaths []string, outPath string) error {
	if len(audioPaths) == 0 {
		return fmt.Errorf("no audio inputs provided")
	}

	tmpPath := renderTempPath(outPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", renderArgs(imagePath, audioPaths, tmpPath)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, tail(string(output), 2000))
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish %s: %w", outPath, err)
	}
	return nil
}

// renderArgs builds the ffmpeg invocation: the image is looped at one frame
// per second and scaled to even dimensions (H.264 requires them), the audio
// inputs are concatenated with the concat filter, and -shortest ends the
// video with the audio track.
func renderArgs(imagePath string, audioPaths []string, outPath string) []string {
	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", "1",
		"-i", imagePath,
	}
	for _, a := range audioPaths {
		args = append(args, "-i", a)
	}

	var inputs strings.Builder
	for i := range audioPaths {
		fmt.Fprintf(&inputs, "[%d:0]", i+1)
	}
	filter := fmt.Sprintf(
		"[0:v]scale=trunc(iw/2)*2:trunc(ih/2)*2[v];%sconcat=n=%d:v=0:a=1[outa]",
		inputs.String(), len(audioPaths),
	)

	return append(args,
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "[outa]",
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-shortest",
		outPath,
	)
}

// renderTempPath keeps the .mp4 extension so ffmpeg still picks the right
// muxer for the temporary file.
func renderTempPath(outPath string) string {
	return strings.TrimSuffix(outPath, ".mp4") + ".tmp.mp4"
}

func parseProbeDuration(output string) (float64, error) {
	trimmed := strings.TrimSpace(output)
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", trimmed, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %q", trimmed)
	}
	return seconds, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
