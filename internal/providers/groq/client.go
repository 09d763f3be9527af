package groq

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"voxtype/internal/audio"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"
const DefaultModel = "whisper-large-v3"

// Client transcribes finished recordings with Groq's Whisper endpoint, which
// speaks the OpenAI audio API.
type Client struct {
	api   openai.Client
	model string
	rate  int
	log   *zap.SugaredLogger
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	SampleRate int
}

func NewClient(opts Options, log *zap.SugaredLogger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("groq api key is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}

	api := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(opts.BaseURL),
	)
	return &Client{api: api, model: opts.Model, rate: opts.SampleRate, log: log}, nil
}

// Transcribe serializes the samples to a temporary WAV file, uploads it, and
// returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	path, cleanup, err := audio.WriteTempWAV(samples, c.rate)
	if err != nil {
		return "", err
	}
	defer cleanup()

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open wav for upload: %w", err)
	}
	defer file.Close()

	resp, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	c.log.Debugw("transcription finished", "model", c.model, "chars", len(text))
	return text, nil
}
