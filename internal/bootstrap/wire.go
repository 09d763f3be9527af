package bootstrap

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voxtype/internal/audio"
	"voxtype/internal/config"
	"voxtype/internal/hotkey"
	"voxtype/internal/inject"
	"voxtype/internal/ports"
	"voxtype/internal/providers/deepgram"
	"voxtype/internal/providers/groq"
	"voxtype/internal/rules"
	"voxtype/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Machine    *hotkey.Machine
	Listener   *hotkey.Listener
	Gate       *inject.Gate
	Config     config.Config
}

// Build wires all runtime dependencies from loaded configuration.
func Build(status ports.StatusSink, log *zap.SugaredLogger) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	return BuildWith(cfg, status, log)
}

// BuildWith wires the graph from an already-resolved configuration.
func BuildWith(cfg config.Config, status ports.StatusSink, log *zap.SugaredLogger) (Services, error) {
	transcriber, err := buildTranscriber(cfg, log)
	if err != nil {
		return Services{}, err
	}

	rewriter, err := rules.Load(cfg.Rules.Path, cfg.Rules.Passes)
	if err != nil {
		return Services{}, err
	}

	gate := inject.NewGate()
	injector := inject.NewGated(inject.NewRobotgoInjector(log), gate)

	controller := usecase.NewSessionController(
		audio.NewPortAudioCapture(log),
		transcriber,
		rewriter,
		injector,
		status,
		log,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:      cfg.Audio.SampleRate,
				Channels:        cfg.Audio.Channels,
				FramesPerBuffer: cfg.Audio.FramesPerBuffer,
			},
			QueueDepth:       cfg.Audio.QueueDepth,
			ReconnectBackoff: cfg.Session.ReconnectBackoff,
		},
	)

	tapHold := cfg.Hotkeys.TapHoldRunes()
	machine := hotkey.NewMachine(
		controller,
		injector,
		gate,
		hotkey.SystemClock(),
		hotkey.SystemScheduler(),
		hotkey.Config{
			HoldThreshold:   cfg.Session.HoldThreshold,
			DoubleTapWindow: cfg.Session.DoubleTapWindow,
		},
		log,
		hotkey.Roles(cfg.Hotkeys.PrimaryRawcode, tapHold),
	)
	listener := hotkey.NewListener(machine, cfg.Hotkeys.PrimaryRawcode, tapHold, log)

	return Services{
		Controller: controller,
		Machine:    machine,
		Listener:   listener,
		Gate:       gate,
		Config:     cfg,
	}, nil
}

func buildTranscriber(cfg config.Config, log *zap.SugaredLogger) (ports.Transcriber, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "groq", "":
		return groq.NewClient(groq.Options{
			APIKey:     cfg.Groq.APIKey,
			BaseURL:    cfg.Groq.APIBaseURL,
			Model:      cfg.Groq.Model,
			SampleRate: cfg.Audio.SampleRate,
		}, log)
	case "deepgram":
		return deepgram.NewClient(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			Language:    cfg.Deepgram.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}
