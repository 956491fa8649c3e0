// Package tts wraps the remote text-to-speech capability behind a small
// interface so stages and tests do not depend on a concrete provider.
package tts

import "context"

// Client converts text into encoded speech audio. Implementations perform a
// single attempt; retry policy belongs to the calling stage.
type Client interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Voice describes a selectable narrator voice.
type Voice struct {
	ID          string
	Description string
}
