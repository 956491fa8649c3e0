package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero_concurrency",
			mutate: func(c *Config) { c.Synthesis.Concurrency = 0 },
			want:   "synthesis.concurrency",
		},
		{
			name:   "zero_retries",
			mutate: func(c *Config) { c.Synthesis.MaxRetries = 0 },
			want:   "synthesis.max_retries",
		},
		{
			name:   "negative_render_workers",
			mutate: func(c *Config) { c.Render.Workers = -2 },
			want:   "render.workers",
		},
		{
			name: "zero_target_duration",
			mutate: func(c *Config) {
				p := c.Projects["example"]
				p.TargetVideoMinutes = 0
				c.Projects["example"] = p
			},
			want: "target_video_minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestProjectLookup(t *testing.T) {
	cfg := DefaultConfig()

	p, err := cfg.Project("example")
	if err != nil {
		t.Fatalf("Project(example) error = %v", err)
	}
	if p.Name != "Example Book" {
		t.Fatalf("unexpected project name %q", p.Name)
	}

	_, err = cfg.Project("nope")
	if err == nil {
		t.Fatalf("expected error for unknown project")
	}
	if !strings.Contains(err.Error(), "example") {
		t.Fatalf("error should list configured ids, got %q", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `projects:
  rtoc:
    name: Reverend Insanity
    epub_file: rtoc.epub
    cover_image: rtoc_cover.jpg
    voice: onyx
    speech_rate: "+15%"
    tts_model: tts-1-hd
    target_video_minutes: 120
synthesis:
  concurrency: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Synthesis.Concurrency != 4 {
		t.Fatalf("expected file override concurrency=4, got %d", cfg.Synthesis.Concurrency)
	}
	if cfg.Synthesis.MaxRetries != 3 {
		t.Fatalf("expected default max_retries=3, got %d", cfg.Synthesis.MaxRetries)
	}
	if cfg.Dirs.Audio != "./audio" {
		t.Fatalf("expected default audio dir, got %q", cfg.Dirs.Audio)
	}

	p, err := cfg.Project("rtoc")
	if err != nil {
		t.Fatalf("Project(rtoc) error = %v", err)
	}
	if p.TargetVideoMinutes != 120 {
		t.Fatalf("expected target 120, got %d", p.TargetVideoMinutes)
	}
	if p.SpeechRate != "+15%" {
		t.Fatalf("expected speech rate +15%%, got %q", p.SpeechRate)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written default) error = %v", err)
	}
	if _, err := cfg.Project("example"); err != nil {
		t.Fatalf("written default should contain example project: %v", err)
	}
}
