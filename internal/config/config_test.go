package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Provider != "groq" {
		t.Fatalf("unexpected provider: %q", cfg.Provider)
	}
	if cfg.Groq.APIBaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected groq base url: %q", cfg.Groq.APIBaseURL)
	}
	if cfg.Groq.Model != "whisper-large-v3" {
		t.Fatalf("unexpected groq model: %q", cfg.Groq.Model)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Session.HoldThreshold != 300*time.Millisecond {
		t.Fatalf("unexpected hold threshold: %v", cfg.Session.HoldThreshold)
	}
	if cfg.Session.DoubleTapWindow != 300*time.Millisecond {
		t.Fatalf("unexpected double tap window: %v", cfg.Session.DoubleTapWindow)
	}
	if cfg.Hotkeys.PrimaryRawcode != 65299 {
		t.Fatalf("unexpected primary rawcode: %d", cfg.Hotkeys.PrimaryRawcode)
	}
	if cfg.Rules.Path != "" || cfg.Rules.Passes != 10 {
		t.Fatalf("unexpected rules defaults: %+v", cfg.Rules)
	}
	if cfg.Hotkeys.TapHoldChars != "`'" {
		t.Fatalf("unexpected tap-hold default: %q", cfg.Hotkeys.TapHoldChars)
	}
	if runes := cfg.Hotkeys.TapHoldRunes(); len(runes) != 2 || runes[0] != '`' || runes[1] != '\'' {
		t.Fatalf("unexpected tap-hold runes: %q", string(runes))
	}
}

func TestLoadRequiresGroqKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadDeepgramProvider(t *testing.T) {
	t.Setenv("VOXTYPE_PROVIDER", "deepgram")
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Deepgram.Model != "nova-2" {
		t.Fatalf("unexpected deepgram model: %q", cfg.Deepgram.Model)
	}
	if !cfg.Deepgram.SmartFormat {
		t.Fatalf("expected smart format default on")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("VOXTYPE_PROVIDER", "parrot")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unknown transcription provider") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("VOXTYPE_SAMPLE_RATE", "-1")
	t.Setenv("VOXTYPE_FRAMES_PER_BUFFER", "8")
	t.Setenv("VOXTYPE_FRAME_QUEUE_DEPTH", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected sample rate clamp, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.FramesPerBuffer != 1024 {
		t.Fatalf("expected frames clamp, got %d", cfg.Audio.FramesPerBuffer)
	}
	if cfg.Audio.QueueDepth != 256 {
		t.Fatalf("expected queue depth clamp, got %d", cfg.Audio.QueueDepth)
	}
}

func TestTapHoldRunes(t *testing.T) {
	t.Parallel()

	hk := HotkeyConfig{TapHoldChars: "`'`"}
	runes := hk.TapHoldRunes()
	if len(runes) != 2 || runes[0] != '`' || runes[1] != '\'' {
		t.Fatalf("unexpected runes: %q", string(runes))
	}
}
