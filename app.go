package main

import (
	"os"
	"os/exec"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"voxtype/internal/domain"
)

type statusUpdate struct {
	state  domain.SessionState
	reason domain.SessionStateReason
}

// App receives session status updates and mirrors them into the tray menu.
// Notify is called from hot paths, so it never blocks; if the tray lags
// behind, intermediate updates are dropped and only the newest state shows.
type App struct {
	log     *zap.SugaredLogger
	updates chan statusUpdate
	quit    func()
}

func NewApp(log *zap.SugaredLogger, quit func()) *App {
	return &App{
		log:     log,
		updates: make(chan statusUpdate, 16),
		quit:    quit,
	}
}

func (a *App) Notify(state domain.SessionState, reason domain.SessionStateReason) {
	select {
	case a.updates <- statusUpdate{state: state, reason: reason}:
	default:
	}
}

// TrayReady is passed to systray.Run. It builds the menu and starts the
// update pump.
func (a *App) TrayReady() {
	systray.SetTitle("voxtype")
	systray.SetTooltip("Hold a key, speak, release")

	status := systray.AddMenuItem("Idle", "Current session state")
	status.Disable()
	restart := systray.AddMenuItem("Restart", "Restart the daemon")
	quit := systray.AddMenuItem("Quit", "Stop the daemon")

	go func() {
		select {
		case <-restart.ClickedCh:
			a.respawn()
		case <-quit.ClickedCh:
		}
		a.quit()
		systray.Quit()
	}()

	go func() {
		for update := range a.updates {
			status.SetTitle(statusLabel(update))
		}
	}()
}

func (a *App) TrayExit() {}

// respawn launches a fresh copy of the daemon before this one shuts down.
func (a *App) respawn() {
	path, err := os.Executable()
	if err != nil {
		a.log.Warnw("restart failed", "error", err)
		return
	}
	cmd := exec.Command(path, os.Args[1:]...)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		a.log.Warnw("restart failed", "error", err)
		return
	}
	a.log.Infow("restarting", "pid", cmd.Process.Pid)
}

func statusLabel(update statusUpdate) string {
	switch update.state {
	case domain.SessionStateRecording:
		return "Recording..."
	case domain.SessionStateTranscribing:
		return "Transcribing..."
	case domain.SessionStateError:
		return "Microphone error"
	}

	switch update.reason {
	case domain.ReasonTextInjected:
		return "Inserted"
	case domain.ReasonNoAudio:
		return "No audio captured"
	case domain.ReasonTranscriptionEmpty:
		return "Nothing heard"
	case domain.ReasonTranscriptionFail:
		return "Transcription failed"
	case domain.ReasonDeviceRecovered:
		return "Microphone recovered"
	default:
		return "Idle"
	}
}
