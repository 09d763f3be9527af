package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"voxtype/internal/audio"
	"voxtype/internal/bootstrap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := NewApp(log, cancel)

	services, err := bootstrap.Build(app, log)
	if err != nil {
		log.Fatalw("startup failed", "error", err)
	}

	if err := audio.Initialize(); err != nil {
		log.Fatalw("audio runtime init failed", "error", err)
	}
	defer audio.Terminate()

	cfg := services.Config
	log.Infow("voxtype started",
		"provider", cfg.Provider,
		"primary_rawcode", cfg.Hotkeys.PrimaryRawcode,
		"tap_hold_chars", cfg.Hotkeys.TapHoldChars,
		"sample_rate", cfg.Audio.SampleRate,
	)

	controllerDone := make(chan error, 1)
	go func() {
		controllerDone <- services.Controller.Run(ctx)
	}()

	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- services.Listener.Run(ctx)
	}()

	go systray.Run(app.TrayReady, app.TrayExit)

	<-ctx.Done()
	log.Infow("shutting down")

	if err := <-controllerDone; err != nil {
		log.Warnw("controller stopped with error", "error", err)
	}
	if err := <-listenerDone; err != nil {
		log.Warnw("listener stopped with error", "error", err)
	}
	systray.Quit()
}
