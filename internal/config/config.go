package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the daemon.
type Config struct {
	Provider string `env:"VOXTYPE_PROVIDER" envDefault:"groq"`

	Groq     GroqConfig
	Deepgram DeepgramConfig
	Audio    AudioConfig
	Hotkeys  HotkeyConfig
	Session  SessionConfig
	Rules    RulesConfig
}

// GroqConfig configures the batch Whisper endpoint (OpenAI-compatible).
type GroqConfig struct {
	APIKey     string `env:"GROQ_API_KEY"`
	APIBaseURL string `env:"GROQ_API_BASE" envDefault:"https://api.groq.com/openai/v1"`
	Model      string `env:"GROQ_MODEL" envDefault:"whisper-large-v3"`
}

// DeepgramConfig configures the streaming transcription endpoint.
type DeepgramConfig struct {
	APIKey      string `env:"DEEPGRAM_API_KEY"`
	APIBaseURL  string `env:"DEEPGRAM_API_BASE" envDefault:"https://api.deepgram.com/v1"`
	Model       string `env:"DEEPGRAM_MODEL" envDefault:"nova-2"`
	Language    string `env:"DEEPGRAM_LANGUAGE"`
	SmartFormat bool   `env:"DEEPGRAM_SMART_FORMAT" envDefault:"true"`
}

// AudioConfig controls microphone capture.
type AudioConfig struct {
	SampleRate      int `env:"VOXTYPE_SAMPLE_RATE" envDefault:"16000"`
	Channels        int `env:"VOXTYPE_CHANNELS" envDefault:"1"`
	FramesPerBuffer int `env:"VOXTYPE_FRAMES_PER_BUFFER" envDefault:"1024"`
	QueueDepth      int `env:"VOXTYPE_FRAME_QUEUE_DEPTH" envDefault:"256"`
}

// HotkeyConfig selects the tracked keys.
type HotkeyConfig struct {
	// PrimaryRawcode is the platform rawcode of the primary push-to-talk
	// key. The default is the Pause key under X11.
	PrimaryRawcode uint16 `env:"VOXTYPE_PRIMARY_RAWCODE" envDefault:"65299"`
	// TapHoldChars lists the literal characters used as tap-hold keys. The
	// tag is an interpreted string because the default contains a backtick.
	TapHoldChars string "env:\"VOXTYPE_TAPHOLD_CHARS\" envDefault:\"`'\""
}

// SessionConfig holds the timing constants of the state machine and the
// device recovery loop.
type SessionConfig struct {
	HoldThreshold    time.Duration `env:"VOXTYPE_HOLD_THRESHOLD" envDefault:"300ms"`
	DoubleTapWindow  time.Duration `env:"VOXTYPE_DOUBLE_TAP_WINDOW" envDefault:"300ms"`
	ReconnectBackoff time.Duration `env:"VOXTYPE_RECONNECT_BACKOFF" envDefault:"2s"`
}

// RulesConfig points at the optional transcript substitution rules.
type RulesConfig struct {
	Path   string `env:"VOXTYPE_RULES_FILE"`
	Passes int    `env:"VOXTYPE_RULES_PASSES" envDefault:"10"`
}

// Load resolves configuration from a .env file, environment variables and
// defaults, then validates it.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.FramesPerBuffer < 64 {
		cfg.Audio.FramesPerBuffer = 1024
	}
	if cfg.Audio.QueueDepth < 16 {
		cfg.Audio.QueueDepth = 256
	}
	if cfg.Session.HoldThreshold <= 0 {
		cfg.Session.HoldThreshold = 300 * time.Millisecond
	}
	if cfg.Session.DoubleTapWindow <= 0 {
		cfg.Session.DoubleTapWindow = 300 * time.Millisecond
	}
	if cfg.Session.ReconnectBackoff <= 0 {
		cfg.Session.ReconnectBackoff = 2 * time.Second
	}

	if err := cfg.validateCredentials(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validateCredentials() error {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "groq", "":
		if strings.TrimSpace(c.Groq.APIKey) == "" {
			return fmt.Errorf("GROQ_API_KEY is not set")
		}
	case "deepgram":
		if strings.TrimSpace(c.Deepgram.APIKey) == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown transcription provider %q (supported: groq, deepgram)", c.Provider)
	}
	return nil
}

// TapHoldRunes returns the configured tap-hold characters, deduplicated and
// in order.
func (c HotkeyConfig) TapHoldRunes() []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range c.TapHoldChars {
		if r == ' ' || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
