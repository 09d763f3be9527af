package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxtype/internal/domain"
	"voxtype/internal/ports"
)

// Config carries the controller tunables.
type Config struct {
	Audio            ports.AudioConfig
	QueueDepth       int
	ReconnectBackoff time.Duration
	// Separator is appended to every injected transcript so consecutive
	// dictations do not run together.
	Separator string
}

// SessionController owns the recording lifecycle: it accumulates frames
// while a session is active, hands finished sessions to the transcriber on a
// worker goroutine, injects the result, and keeps the undo stack. It also
// runs the device recovery loop.
type SessionController struct {
	capture     ports.AudioCapture
	transcriber ports.Transcriber
	rewriter    ports.TranscriptRewriter
	injector    ports.TextInjector
	status      ports.StatusSink
	log         *zap.SugaredLogger
	cfg         Config

	recording atomic.Bool
	frames    *FrameQueue
	undo      undoStack
	pipelines sync.WaitGroup
}

func NewSessionController(
	capture ports.AudioCapture,
	transcriber ports.Transcriber,
	rewriter ports.TranscriptRewriter,
	injector ports.TextInjector,
	status ports.StatusSink,
	log *zap.SugaredLogger,
	cfg Config,
) *SessionController {
	if cfg.ReconnectBackoff <= 0 {
		cfg.ReconnectBackoff = 2 * time.Second
	}
	if cfg.Separator == "" {
		cfg.Separator = " "
	}
	return &SessionController{
		capture:     capture,
		transcriber: transcriber,
		rewriter:    rewriter,
		injector:    injector,
		status:      status,
		log:         log,
		cfg:         cfg,
		frames:      NewFrameQueue(cfg.QueueDepth),
	}
}

// BeginRecording arms frame accumulation. It reports false when a session is
// already active, in which case the running session is left untouched.
func (c *SessionController) BeginRecording() bool {
	if !c.recording.CompareAndSwap(false, true) {
		return false
	}
	if n := c.frames.Discard(); n > 0 {
		c.log.Debugw("discarded stale frames before session", "frames", n)
	}
	c.status.Notify(domain.SessionStateRecording, domain.ReasonRecordingStarted)
	c.log.Infow("recording started")
	return true
}

// EndRecording closes the active session and hands the captured audio to the
// transcription worker. Calling it with no active session only re-asserts the
// idle status.
func (c *SessionController) EndRecording() {
	if !c.recording.CompareAndSwap(true, false) {
		c.status.Notify(domain.SessionStateIdle, domain.ReasonNoAudio)
		return
	}

	samples := c.frames.Drain()
	if dropped := c.frames.Dropped(); dropped > 0 {
		c.log.Warnw("frames dropped during session", "dropped_total", dropped)
	}
	if len(samples) == 0 {
		c.log.Infow("recording stopped with no audio")
		c.status.Notify(domain.SessionStateIdle, domain.ReasonNoAudio)
		return
	}

	c.log.Infow("recording stopped", "samples", len(samples))
	c.status.Notify(domain.SessionStateTranscribing, domain.ReasonTranscribing)
	c.pipelines.Add(1)
	go c.runPipeline(samples)
}

// runPipeline transcribes one finished session and injects the result. Every
// outcome ends in the idle state; failures are logged and swallowed so the
// daemon stays usable.
func (c *SessionController) runPipeline(samples []int16) {
	defer c.pipelines.Done()

	id := uuid.NewString()[:8]
	log := c.log.With("session", id)

	text, err := c.transcriber.Transcribe(context.Background(), samples)
	if err != nil {
		log.Warnw("transcription failed", "error", err)
		c.status.Notify(domain.SessionStateIdle, domain.ReasonTranscriptionFail)
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Infow("transcription empty")
		c.status.Notify(domain.SessionStateIdle, domain.ReasonTranscriptionEmpty)
		return
	}

	if c.rewriter != nil {
		rewritten, err := c.rewriter.Rewrite(text)
		if err != nil {
			log.Warnw("transcript rewrite failed, using raw text", "error", err)
		} else {
			text = strings.TrimSpace(rewritten)
		}
		if text == "" {
			c.status.Notify(domain.SessionStateIdle, domain.ReasonTranscriptionEmpty)
			return
		}
	}

	text += c.cfg.Separator
	c.undo.push(text)
	if err := c.injector.Type(text); err != nil {
		log.Warnw("injection failed", "error", err)
	} else {
		log.Infow("text injected", "runes", utf8.RuneCountInString(text))
	}
	c.status.Notify(domain.SessionStateIdle, domain.ReasonTextInjected)
}

// Undo deletes the most recently injected transcript, one backspace per
// rune. With an empty stack it does nothing.
func (c *SessionController) Undo() {
	text, ok := c.undo.pop()
	if !ok {
		c.log.Debugw("undo requested with empty history")
		return
	}
	n := utf8.RuneCountInString(text)
	if err := c.injector.Delete(n); err != nil {
		// Keep the entry so the undo can be retried once injection works.
		c.undo.push(text)
		c.log.Warnw("undo deletion failed", "error", err, "runes", n)
		return
	}
	c.log.Infow("undid last injection", "runes", n)
}

// RecordingActive reports whether a session is currently accumulating
// frames.
func (c *SessionController) RecordingActive() bool {
	return c.recording.Load()
}

// UndoDepth reports how many injected transcripts can still be undone.
func (c *SessionController) UndoDepth() int {
	return c.undo.depth()
}

// Status snapshots the controller for the tray and diagnostics.
func (c *SessionController) Status() domain.Status {
	st := domain.Status{State: domain.SessionStateIdle}
	if c.recording.Load() {
		st.State = domain.SessionStateRecording
		st.Recording = true
	}
	return st
}

// Run owns the capture device for the life of ctx. It opens capture epochs,
// waits for device faults, and reopens the device after a fixed backoff. A
// fault during an active session force-stops the session and discards its
// frames. Run returns after ctx is cancelled and all in-flight transcription
// pipelines have finished.
func (c *SessionController) Run(ctx context.Context) error {
	c.status.Notify(domain.SessionStateIdle, domain.ReasonStartup)

	wasDown := false
	for ctx.Err() == nil {
		session, err := c.capture.Open(ctx, c.cfg.Audio, c.sinkFrame)
		if err != nil {
			c.log.Warnw("audio device unavailable", "error", err)
			c.abortSession()
			c.status.Notify(domain.SessionStateError, domain.ReasonDeviceFault)
			wasDown = true
			c.sleepBackoff(ctx)
			continue
		}

		if wasDown {
			c.log.Infow("audio device recovered")
			c.status.Notify(domain.SessionStateIdle, domain.ReasonDeviceRecovered)
			wasDown = false
		}

		select {
		case <-ctx.Done():
			_ = session.Close()
		case err := <-session.Fault():
			c.log.Warnw("audio device fault", "error", err)
			_ = session.Close()
			c.abortSession()
			c.status.Notify(domain.SessionStateError, domain.ReasonDeviceFault)
			wasDown = true
			c.sleepBackoff(ctx)
		}
	}

	c.pipelines.Wait()
	return nil
}

// sinkFrame runs on the capture thread. Frames arriving outside a session
// are ignored; inside a session they are enqueued without blocking.
func (c *SessionController) sinkFrame(frame []int16) {
	if !c.recording.Load() {
		return
	}
	c.frames.Push(frame)
}

// abortSession force-stops any active session and throws away its audio.
// Nothing partial ever reaches the transcriber.
func (c *SessionController) abortSession() {
	active := c.recording.CompareAndSwap(true, false)
	discarded := c.frames.Discard()
	if active {
		c.log.Warnw("session aborted by device fault", "discarded_frames", discarded)
	}
}

func (c *SessionController) sleepBackoff(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(c.cfg.ReconnectBackoff):
	}
}
