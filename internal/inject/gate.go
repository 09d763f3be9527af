package inject

import "sync/atomic"

// Gate marks windows during which synthetic keystrokes are in flight. The
// hotkey layer drops every event it sees while the gate is engaged, so the
// daemon never reacts to its own typing.
type Gate struct {
	engaged atomic.Bool
}

func NewGate() *Gate { return &Gate{} }

func (g *Gate) Engaged() bool { return g.engaged.Load() }

func (g *Gate) raise() { g.engaged.Store(true) }

func (g *Gate) lower() { g.engaged.Store(false) }
