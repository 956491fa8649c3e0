package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/config"
	"github.com/jackzampolin/bookcast/internal/library"
	"github.com/jackzampolin/bookcast/internal/tts"
	"github.com/jackzampolin/bookcast/version"
)

var (
	cfgFile   string
	projectID string
	verbose   bool
)

// errPartial marks a run where some units failed while the rest completed.
// The artifacts of the completed units are on disk, so rerunning the same
// command picks up only what is missing.
var errPartial = errors.New("completed with failures")

var rootCmd = &cobra.Command{
	Use:   "bookcast",
	Short: "Turn EPUB books into narrated still-image videos",
	Long: `Bookcast converts an EPUB book into a set of narrated videos: the book is
split into chapter text files, each chapter is synthesized to audio via the
OpenAI speech API, and chapters are grouped into target-length videos over
the book's cover image with ffmpeg.

Every stage records completion as files on disk, so interrupted runs resume
by rerunning the same command.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookcast/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&projectID, "project", "p", "", "project id from the projects map in the config",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// app is the shared command bootstrap: loaded config, resolved project,
// artifact store, and a logger tagged with a short run id.
type app struct {
	cfg     *config.Config
	project config.Project
	store   *library.Store
	logger  *slog.Logger
}

func newApp(needProject bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With("run", uuid.NewString()[:8])

	a := &app{cfg: cfg, logger: logger}

	a.store = library.NewStore(cfg.Dirs.Chapters, cfg.Dirs.Audio, cfg.Dirs.Videos)
	if err := a.store.EnsureDirs(); err != nil {
		return nil, err
	}

	if needProject {
		if projectID == "" {
			return nil, fmt.Errorf("--project is required")
		}
		p, err := cfg.Project(projectID)
		if err != nil {
			return nil, err
		}
		a.project = p
		a.logger = a.logger.With("project", projectID)
	}
	return a, nil
}

// ttsClient builds the speech client from the resolved project's settings.
func (a *app) ttsClient() (tts.Client, error) {
	if a.cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured (set BOOKCAST_OPENAI_API_KEY)")
	}
	speed, err := tts.ParseRate(a.project.SpeechRate)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", projectID, err)
	}
	return tts.NewOpenAIClient(tts.OpenAIConfig{
		APIKey:       a.cfg.OpenAIAPIKey,
		Model:        a.project.TTSModel,
		Voice:        a.project.Voice,
		Speed:        speed,
		Instructions: a.project.Instructions,
	}), nil
}
