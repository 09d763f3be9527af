package ports

import (
	"context"
	"time"

	"voxtype/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// FrameSink receives one captured PCM16 frame. The capture layer reuses its
// own buffers, so the slice is only valid for the duration of the call.
type FrameSink func(frame []int16)

// CaptureSession is one capture epoch on the audio device.
type CaptureSession interface {
	// Fault yields at most one error per epoch, raised when the device
	// stream reports a fault condition (overflow, disconnection).
	Fault() <-chan error
	Close() error
}

// AudioCapture opens microphone capture epochs.
type AudioCapture interface {
	Open(ctx context.Context, cfg AudioConfig, sink FrameSink) (CaptureSession, error)
}

// Transcriber converts one finished recording into text. Implementations may
// return an empty string when nothing was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []int16) (string, error)
}

// TranscriptRewriter applies user-defined substitutions to a transcript
// before it is injected.
type TranscriptRewriter interface {
	Rewrite(text string) (string, error)
}

// TextInjector emits synthetic input into the focused application.
type TextInjector interface {
	// Type emits the literal characters of text as keystrokes.
	Type(text string) error
	// Delete emits count backspace-equivalent events.
	Delete(count int) error
}

// StatusSink receives coarse state notifications for display. Notify must
// never block the caller.
type StatusSink interface {
	Notify(state domain.SessionState, reason domain.SessionStateReason)
}

// Clock supplies monotonic-friendly timestamps for tap/hold disambiguation.
type Clock interface {
	Now() time.Time
}

// Timer is a cancellable scheduled callback handle.
type Timer interface {
	// Stop cancels the timer; it reports false when the callback already
	// fired or was stopped before.
	Stop() bool
}

// Scheduler creates deferred callbacks for hold detection.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
