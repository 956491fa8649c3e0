// Package config loads the bookcast configuration: one or more book projects
// plus the pipeline settings shared by every project.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ErrUnknownProject is returned when a project id is not present in the config.
var ErrUnknownProject = errors.New("unknown project")

// Project holds the per-book settings.
type Project struct {
	Name       string `mapstructure:"name" yaml:"name"`
	EpubFile   string `mapstructure:"epub_file" yaml:"epub_file"`
	CoverImage string `mapstructure:"cover_image" yaml:"cover_image"`

	// TTS settings
	Voice        string `mapstructure:"voice" yaml:"voice"`
	SpeechRate   string `mapstructure:"speech_rate" yaml:"speech_rate"` // e.g. "+15%"
	TTSModel     string `mapstructure:"tts_model" yaml:"tts_model"`
	Instructions string `mapstructure:"instructions" yaml:"instructions,omitempty"`

	// TargetVideoMinutes is the duration each rendered video aims for.
	TargetVideoMinutes int `mapstructure:"target_video_minutes" yaml:"target_video_minutes"`
}

// Synthesis holds the audio generation settings.
type Synthesis struct {
	// Concurrency caps simultaneously in-flight TTS calls. This is a hard
	// ceiling: the TTS service truncates audio under excessive parallel
	// load, so raising it past ~8-10 risks silently corrupt artifacts.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`

	// MaxRetries is the total attempt count per chapter. Backoff doubles
	// from one second per attempt, so the worst-case wait before the final
	// attempt is 2^(max_retries-1) seconds.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// RegenConcurrency is used by the regen command. Kept lower than the
	// main run so regenerated chapters do not truncate again.
	RegenConcurrency int `mapstructure:"regen_concurrency" yaml:"regen_concurrency"`
}

// Render holds the video rendering settings.
type Render struct {
	// Workers is the ffmpeg process count. 0 means one per CPU core.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Report holds the durations report settings.
type Report struct {
	// SuspiciousSizeMB flags audio files smaller than this as likely
	// truncated by the TTS service.
	SuspiciousSizeMB float64 `mapstructure:"suspicious_size_mb" yaml:"suspicious_size_mb"`
}

// Dirs holds the working directory layout.
type Dirs struct {
	Chapters string `mapstructure:"chapters" yaml:"chapters"`
	Audio    string `mapstructure:"audio" yaml:"audio"`
	Videos   string `mapstructure:"videos" yaml:"videos"`
}

// Config is the full bookcast configuration.
type Config struct {
	Projects  map[string]Project `mapstructure:"projects" yaml:"projects"`
	Synthesis Synthesis          `mapstructure:"synthesis" yaml:"synthesis"`
	Render    Render             `mapstructure:"render" yaml:"render"`
	Report    Report             `mapstructure:"report" yaml:"report"`
	Dirs      Dirs               `mapstructure:"dirs" yaml:"dirs"`

	// OpenAIAPIKey is read from the environment (BOOKCAST_OPENAI_API_KEY)
	// or the config file.
	OpenAIAPIKey string `mapstructure:"openai_api_key" yaml:"openai_api_key,omitempty"`
}

// Load reads configuration from the given file (or the default search path
// when empty), layered over defaults and BOOKCAST_* environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("synthesis", defaults.Synthesis)
	v.SetDefault("render", defaults.Render)
	v.SetDefault("report", defaults.Report)
	v.SetDefault("dirs", defaults.Dirs)

	v.SetEnvPrefix("BOOKCAST")
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about during
	// Unmarshal; the API key has no default, so bind it explicitly.
	_ = v.BindEnv("openai_api_key")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bookcast")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings every stage depends on.
func (c *Config) Validate() error {
	if c.Synthesis.Concurrency < 1 {
		return fmt.Errorf("synthesis.concurrency must be >= 1 (got %d)", c.Synthesis.Concurrency)
	}
	if c.Synthesis.MaxRetries < 1 {
		return fmt.Errorf("synthesis.max_retries must be >= 1 (got %d)", c.Synthesis.MaxRetries)
	}
	if c.Synthesis.RegenConcurrency < 1 {
		return fmt.Errorf("synthesis.regen_concurrency must be >= 1 (got %d)", c.Synthesis.RegenConcurrency)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must be >= 0 (got %d)", c.Render.Workers)
	}
	for id, p := range c.Projects {
		if p.TargetVideoMinutes < 1 {
			return fmt.Errorf("project %q: target_video_minutes must be >= 1 (got %d)", id, p.TargetVideoMinutes)
		}
	}
	return nil
}

// Project returns the named project or ErrUnknownProject listing the
// configured ids.
func (c *Config) Project(id string) (Project, error) {
	p, ok := c.Projects[id]
	if !ok {
		ids := make([]string, 0, len(c.Projects))
		for k := range c.Projects {
			ids = append(ids, k)
		}
		sort.Strings(ids)
		return Project{}, fmt.Errorf("%w: %q (configured: %v)", ErrUnknownProject, id, ids)
	}
	return p, nil
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# bookcast configuration
# The OpenAI API key is read from the environment: export BOOKCAST_OPENAI_API_KEY=sk-...
# Add one entry under projects: per book.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
