package hotkey

import (
	"context"
	"fmt"

	hook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"voxtype/internal/domain"
)

// Listener bridges global keyboard events from gohook to the state machine.
// It runs on its own goroutine; per-key dispatch stays cheap so the event
// stream never backs up.
type Listener struct {
	machine *Machine
	primary uint16
	tapHold map[rune]string
	log     *zap.SugaredLogger
}

// Roles builds the key roles for the configured bindings: one primary
// push-to-talk key plus one tap-hold role per literal character.
func Roles(primaryRawcode uint16, tapHoldChars []rune) []domain.KeyRole {
	roles := []domain.KeyRole{{Name: "primary", Kind: domain.RoleKindPrimary}}
	for _, r := range tapHoldChars {
		roles = append(roles, domain.KeyRole{
			Name:    roleNameForRune(r),
			Kind:    domain.RoleKindTapHold,
			Literal: r,
		})
	}
	return roles
}

func roleNameForRune(r rune) string {
	switch r {
	case '`':
		return "backtick"
	case '\'':
		return "apostrophe"
	default:
		return fmt.Sprintf("key_%c", r)
	}
}

func NewListener(machine *Machine, primaryRawcode uint16, tapHoldChars []rune, log *zap.SugaredLogger) *Listener {
	tapHold := make(map[rune]string, len(tapHoldChars))
	for _, r := range tapHoldChars {
		tapHold[r] = roleNameForRune(r)
	}
	return &Listener{
		machine: machine,
		primary: primaryRawcode,
		tapHold: tapHold,
		log:     log,
	}
}

// Run consumes the global event stream until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	events := hook.Start()
	defer hook.End()

	l.log.Infow("key listener started", "primary_rawcode", l.primary, "tap_hold_keys", len(l.tapHold))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case hook.KeyDown:
				if name, matched := l.match(ev); matched {
					l.machine.Press(name)
				}
			case hook.KeyUp:
				if name, matched := l.match(ev); matched {
					l.machine.Release(name)
				}
			}
		}
	}
}

func (l *Listener) match(ev hook.Event) (string, bool) {
	if ev.Rawcode == l.primary {
		return "primary", true
	}
	if name, ok := l.tapHold[rune(ev.Keychar)]; ok {
		return name, true
	}
	return "", false
}
