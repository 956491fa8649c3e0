package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultModel = string(openai.SpeechModelTTS1HD)
	defaultVoice = "onyx"

	// Chapter-length inputs can take a while to synthesize.
	defaultTimeout = 300 * time.Second
)

// OpenAIConfig configures the OpenAI speech client.
type OpenAIConfig struct {
	APIKey       string
	Model        string  // "tts-1-hd" (default), "tts-1", "gpt-4o-mini-tts"
	Voice        string  // "onyx" (default)
	Speed        float64 // 0.25-4.0, from ParseRate
	Instructions string  // Used by gpt-4o-mini-tts only
	Timeout      time.Duration
	BaseURL      string       // Optional (tests)
	HTTPClient   *http.Client // Optional (tests)
}

// OpenAIClient synthesizes speech through the OpenAI audio API. It performs
// no transport-level retries; the synthesis stage owns the retry policy.
type OpenAIClient struct {
	model        string
	voice        string
	speed        float64
	instructions string
	client       openai.Client
}

// NewOpenAIClient creates a speech client with defaults applied.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:        cfg.Model,
		voice:        cfg.Voice,
		speed:        cfg.Speed,
		instructions: strings.TrimSpace(cfg.Instructions),
		client:       openai.NewClient(opts...),
	}
}

// Synthesize converts text to MP3 audio. Empty text is passed through to the
// API and surfaces as a normal provider error.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	params := openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(c.model),
		Voice:          openai.AudioSpeechNewParamsVoice(c.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(c.speed),
	}
	if c.instructions != "" && supportsInstructions(c.model) {
		params.Instructions = openai.String(c.instructions)
	}

	resp, err := c.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading speech response: %w", err)
	}
	return audio, nil
}

// ListVoices returns the built-in OpenAI TTS voice list.
func (c *OpenAIClient) ListVoices() []Voice {
	return []Voice{
		{ID: "alloy", Description: "Neutral and balanced"},
		{ID: "ash", Description: "Calm and measured"},
		{ID: "ballad", Description: "Soft and melodic"},
		{ID: "coral", Description: "Warm and friendly"},
		{ID: "echo", Description: "Clear and articulate"},
		{ID: "fable", Description: "Bright storyteller"},
		{ID: "nova", Description: "Energetic and upbeat"},
		{ID: "onyx", Description: "Deep and authoritative"},
		{ID: "sage", Description: "Gentle and soothing"},
		{ID: "shimmer", Description: "Light and expressive"},
		{ID: "verse", Description: "Dynamic and versatile"},
		{ID: "marin", Description: "Natural and conversational"},
		{ID: "cedar", Description: "Low and resonant"},
	}
}

// Model returns the configured speech model.
func (c *OpenAIClient) Model() string { return c.model }

// Voice returns the configured voice.
func (c *OpenAIClient) Voice() string { return c.voice }

func supportsInstructions(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-4o-mini-tts")
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("OpenAI rate limited: %s", apiErr.Message)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI speech error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI speech error (status %d)", apiErr.StatusCode)
	}
	return err
}

var _ Client = (*OpenAIClient)(nil)
