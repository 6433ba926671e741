package script

import "github.com/behrlich/luatap/internal/broadcast"

// Console is the Lua-visible handle scripts use to write to the control
// channel's console (as opposed to the host process's own stdout, which
// Lua's built-in print() still targets unmodified). It is a thin wrapper
// over the broadcast bus's publish side; every session shares the same
// bus, and since sessions are served one at a time, its output reaches
// whichever session is currently connected.
type Console struct {
	bus *broadcast.Bus
}

// NewConsole wraps a bus for use as a session's console.
func NewConsole(bus *broadcast.Bus) *Console {
	return &Console{bus: bus}
}

// Send publishes msg to every subscriber of the underlying bus.
func (c *Console) Send(msg string) {
	c.bus.Publish(msg)
}
