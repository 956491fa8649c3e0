package config

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Projects: map[string]Project{
			"example": {
				Name:               "Example Book",
				EpubFile:           "book.epub",
				CoverImage:         "cover.jpg",
				Voice:              "onyx",
				SpeechRate:         "+15%",
				TTSModel:           "tts-1-hd",
				TargetVideoMinutes: 120,
			},
		},
		Synthesis: Synthesis{
			Concurrency:      6,
			MaxRetries:       3,
			RegenConcurrency: 4,
		},
		Render: Render{
			Workers: 0,
		},
		Report: Report{
			SuspiciousSizeMB: 3,
		},
		Dirs: Dirs{
			Chapters: "./chapters",
			Audio:    "./audio",
			Videos:   "./videos",
		},
	}
}
