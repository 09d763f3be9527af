package hotkey

import (
	"time"

	"voxtype/internal/ports"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() ports.Clock { return systemClock{} }

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() ports.Scheduler { return systemScheduler{} }
