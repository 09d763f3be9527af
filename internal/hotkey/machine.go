package hotkey

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"voxtype/internal/domain"
	"voxtype/internal/ports"
)

// Actions are the session-level intents the state machine emits.
type Actions interface {
	// BeginRecording starts a session; it reports false when one is
	// already active.
	BeginRecording() bool
	EndRecording()
	Undo()
	RecordingActive() bool
}

// InjectionGate reports whether synthetic text injection is in flight.
// While engaged, every raw key event is dropped before any per-role logic,
// so injected keystrokes cannot corrupt tap/hold timers.
type InjectionGate interface {
	Engaged() bool
}

// Config holds the timing constants for tap/hold disambiguation.
type Config struct {
	HoldThreshold   time.Duration
	DoubleTapWindow time.Duration
}

// Machine turns raw press/release events into session intents. One shared
// implementation serves every configured role; each role keeps independent
// state and the roles interact only through the single-session rule.
type Machine struct {
	actions  Actions
	injector ports.TextInjector
	gate     InjectionGate
	clock    ports.Clock
	sched    ports.Scheduler
	cfg      Config
	log      *zap.SugaredLogger

	roles map[string]*keyState
}

// keyState tracks one press cycle of one role. At most one hold timer is
// pending at a time; a new press cycle replaces stale state from the last.
type keyState struct {
	mu   sync.Mutex
	role domain.KeyRole

	pressedAt time.Time
	timer     ports.Timer
	lastTapAt time.Time
	// owns is set when this key's press started the active session, so the
	// matching release ends it regardless of elapsed hold duration.
	owns bool
}

func NewMachine(
	actions Actions,
	injector ports.TextInjector,
	gate InjectionGate,
	clock ports.Clock,
	sched ports.Scheduler,
	cfg Config,
	log *zap.SugaredLogger,
	roles []domain.KeyRole,
) *Machine {
	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = 300 * time.Millisecond
	}
	if cfg.DoubleTapWindow <= 0 {
		cfg.DoubleTapWindow = 300 * time.Millisecond
	}

	m := &Machine{
		actions:  actions,
		injector: injector,
		gate:     gate,
		clock:    clock,
		sched:    sched,
		cfg:      cfg,
		log:      log,
		roles:    make(map[string]*keyState, len(roles)),
	}
	for _, role := range roles {
		m.roles[role.Name] = &keyState{role: role}
	}
	return m
}

// Press handles a raw key-down event for the named role.
func (m *Machine) Press(name string) {
	if m.gate.Engaged() {
		return
	}
	s, ok := m.roles[name]
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.role.Kind {
	case domain.RoleKindPrimary:
		if s.owns || m.actions.RecordingActive() {
			return
		}
		if m.actions.BeginRecording() {
			s.owns = true
			m.log.Infow("recording started", "role", name)
		}
	case domain.RoleKindTapHold:
		if !s.pressedAt.IsZero() {
			// OS auto-repeat within one physical press cycle.
			return
		}
		if m.actions.RecordingActive() {
			// A session is already live; the literal character stands.
			return
		}
		s.pressedAt = m.clock.Now()
		s.timer = m.sched.AfterFunc(m.cfg.HoldThreshold, func() {
			m.holdExpired(s)
		})
	}
}

// Release handles a raw key-up event for the named role.
func (m *Machine) Release(name string) {
	if m.gate.Engaged() {
		return
	}
	s, ok := m.roles[name]
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.role.Kind == domain.RoleKindPrimary {
		if s.owns {
			s.owns = false
			m.actions.EndRecording()
			m.log.Infow("recording stopped", "role", name)
		}
		return
	}

	// Cancel the hold timer before anything else. If the callback already
	// fired, owns tells us below; if it is mid-flight it will find the
	// press cycle cleared and back off.
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	pressedAt := s.pressedAt
	s.pressedAt = time.Time{}

	if s.owns {
		s.owns = false
		m.actions.EndRecording()
		m.log.Infow("recording stopped", "role", name)
		return
	}
	if pressedAt.IsZero() {
		return
	}

	now := m.clock.Now()
	if now.Sub(pressedAt) >= m.cfg.HoldThreshold {
		// Hold confirmed but no session was started (the timer lost to an
		// already-active session). Nothing to do.
		return
	}

	if !s.lastTapAt.IsZero() && now.Sub(s.lastTapAt) < m.cfg.DoubleTapWindow {
		// Double tap: retract both literal characters, then undo.
		if err := m.injector.Delete(2); err != nil {
			m.log.Warnw("corrective deletion failed", "role", name, "error", err)
		}
		s.lastTapAt = time.Time{}
		m.actions.Undo()
		return
	}

	// Single tap: the literal character stands as typed.
	s.lastTapAt = now
}

// holdExpired runs on the scheduler when a tap-hold key has been held past
// the threshold. The role mutex serializes it against Release, which keeps
// BeginRecording at-most-once per press cycle.
func (m *Machine) holdExpired(s *keyState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pressedAt.IsZero() {
		// Released before the callback won the lock.
		return
	}
	s.timer = nil
	if m.actions.RecordingActive() {
		return
	}

	// Claim the session first; another role may win it between the check
	// above and here, and the literal character must stand in that case.
	if !m.actions.BeginRecording() {
		return
	}
	s.owns = true
	// Retract the literal character the OS already typed for this press.
	if err := m.injector.Delete(1); err != nil {
		m.log.Warnw("corrective deletion failed", "role", s.role.Name, "error", err)
	}
	m.log.Infow("recording started", "role", s.role.Name)
}
