package inject

import (
	"fmt"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"voxtype/internal/ports"
)

// RobotgoInjector types into whatever window currently holds keyboard focus.
type RobotgoInjector struct {
	log *zap.SugaredLogger
}

func NewRobotgoInjector(log *zap.SugaredLogger) *RobotgoInjector {
	return &RobotgoInjector{log: log}
}

func (r *RobotgoInjector) Type(text string) error {
	if text == "" {
		return nil
	}
	robotgo.TypeStr(text)
	return nil
}

func (r *RobotgoInjector) Delete(count int) error {
	for i := 0; i < count; i++ {
		if err := robotgo.KeyTap("backspace"); err != nil {
			return fmt.Errorf("backspace %d/%d failed: %w", i+1, count, err)
		}
	}
	return nil
}

// Gated wraps an injector so the gate is engaged for the duration of every
// synthetic keystroke burst.
type Gated struct {
	inner ports.TextInjector
	gate  *Gate
}

func NewGated(inner ports.TextInjector, gate *Gate) *Gated {
	return &Gated{inner: inner, gate: gate}
}

func (g *Gated) Type(text string) error {
	g.gate.raise()
	defer g.gate.lower()
	return g.inner.Type(text)
}

func (g *Gated) Delete(count int) error {
	g.gate.raise()
	defer g.gate.lower()
	return g.inner.Delete(count)
}
