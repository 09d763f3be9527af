package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"voxtype/internal/ports"
)

// PortAudioCapture opens microphone capture epochs on the default input
// device. Initialize must have been called before the first Open.
type PortAudioCapture struct {
	log *zap.SugaredLogger
}

func NewPortAudioCapture(log *zap.SugaredLogger) *PortAudioCapture {
	return &PortAudioCapture{log: log}
}

// Initialize prepares the PortAudio runtime. Pair with Terminate at process
// shutdown.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init failed: %w", err)
	}
	return nil
}

// Terminate releases the PortAudio runtime.
func Terminate() {
	_ = portaudio.Terminate()
}

func (c *PortAudioCapture) Open(ctx context.Context, cfg ports.AudioConfig, sink ports.FrameSink) (ports.CaptureSession, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = 1024
	}

	in := make([]int16, cfg.FramesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), len(in), in)
	if err != nil {
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	session := &paSession{
		stream: stream,
		fault:  make(chan error, 1),
		closed: make(chan struct{}),
	}
	go session.readLoop(in, sink)

	c.log.Debugw("capture epoch opened", "sample_rate", cfg.SampleRate, "frames_per_buffer", cfg.FramesPerBuffer)
	return session, nil
}

type paSession struct {
	stream *portaudio.Stream

	fault  chan error
	closed chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// readLoop pulls buffers from the stream until the session closes or the
// device reports a fault. The first fault ends the epoch; it is signalled
// exactly once and the loop exits rather than spinning on a dead device.
func (s *paSession) readLoop(in []int16, sink ports.FrameSink) {
	for {
		select {
		case <-s.closed:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			select {
			case <-s.closed:
			default:
				s.fault <- fmt.Errorf("input stream fault: %w", err)
			}
			return
		}
		sink(in)
	}
}

func (s *paSession) Fault() <-chan error { return s.fault }

func (s *paSession) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		if err := s.stream.Stop(); err != nil {
			s.closeErr = err
		}
		if err := s.stream.Close(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}
