package main

import (
	"testing"

	"go.uber.org/zap"

	"voxtype/internal/domain"
)

func TestNotifyNeverBlocks(t *testing.T) {
	t.Parallel()

	app := NewApp(zap.NewNop().Sugar(), func() {})

	// Nothing consumes the updates; every call must still return.
	for i := 0; i < 100; i++ {
		app.Notify(domain.SessionStateRecording, domain.ReasonRecordingStarted)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		update statusUpdate
		want   string
	}{
		{statusUpdate{state: domain.SessionStateRecording, reason: domain.ReasonRecordingStarted}, "Recording..."},
		{statusUpdate{state: domain.SessionStateTranscribing, reason: domain.ReasonTranscribing}, "Transcribing..."},
		{statusUpdate{state: domain.SessionStateError, reason: domain.ReasonDeviceFault}, "Microphone error"},
		{statusUpdate{state: domain.SessionStateIdle, reason: domain.ReasonTextInjected}, "Inserted"},
		{statusUpdate{state: domain.SessionStateIdle, reason: domain.ReasonNoAudio}, "No audio captured"},
		{statusUpdate{state: domain.SessionStateIdle, reason: domain.ReasonStartup}, "Idle"},
	}

	for _, tc := range cases {
		if got := statusLabel(tc.update); got != tc.want {
			t.Fatalf("label for %s/%s: got %q want %q", tc.update.state, tc.update.reason, got, tc.want)
		}
	}
}
