package domain

// SessionState models the dictation lifecycle as shown in the tray.
type SessionState string

const (
	SessionStateIdle         SessionState = "idle"
	SessionStateRecording    SessionState = "recording"
	SessionStateTranscribing SessionState = "transcribing"
	SessionStateError        SessionState = "error"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	ReasonStartup            SessionStateReason = "startup"
	ReasonRecordingStarted   SessionStateReason = "recording_started"
	ReasonTranscribing       SessionStateReason = "transcribing"
	ReasonTextInjected       SessionStateReason = "text_injected"
	ReasonNoAudio            SessionStateReason = "no_audio"
	ReasonTranscriptionEmpty SessionStateReason = "transcription_empty"
	ReasonTranscriptionFail  SessionStateReason = "transcription_failed"
	ReasonDeviceFault        SessionStateReason = "device_fault"
	ReasonDeviceRecovered    SessionStateReason = "device_recovered"
)

// ErrorCode identifies non-fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeAudioDevice   ErrorCode = "audio_device"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodeInjection     ErrorCode = "injection"
)

// RoleKind distinguishes the two hotkey behaviors.
type RoleKind string

const (
	// RoleKindPrimary starts recording on press and stops on release,
	// unconditionally. The key types nothing natively.
	RoleKindPrimary RoleKind = "primary"
	// RoleKindTapHold types a literal character on tap, records while held
	// past the hold threshold, and undoes on double tap.
	RoleKindTapHold RoleKind = "tap_hold"
)

// KeyRole describes one physical key the listener tracks.
type KeyRole struct {
	Name string
	Kind RoleKind
	// Literal is the character the OS types for this key before the daemon
	// reacts; corrective deletions retract it. Zero for primary keys.
	Literal rune
}

// Status summarizes the current runtime status.
type Status struct {
	State     SessionState `json:"state"`
	Recording bool         `json:"recording"`
	Message   string       `json:"message,omitempty"`
}
