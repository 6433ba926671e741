// Package luatap is an in-process Lua introspection agent: loaded into a
// host process, it starts a background control channel serving an
// interactive Lua REPL whose builtins read/write the host's own memory.
//
// Importing this package for its side effect (the init() below) is the
// whole of its public surface; nothing else needs to be called.
package luatap

import (
	"github.com/behrlich/luatap/internal/channel"
	"github.com/behrlich/luatap/internal/constants"
	"github.com/behrlich/luatap/internal/logging"
)

func init() {
	go runAgent()
}

// runAgent is the goroutine init() spawns: it
// configures logging, builds the control channel, starts serving it in a
// further goroutine, and runs the echo pump that relays every message
// published on the channel's broadcast bus into its single-consumer sink,
// where the currently-connected session's writer picks it up.
func runAgent() {
	logging.SetDefault(logging.NewLogger(logging.DefaultConfig()))
	logging.Info("luatap agent starting", "addr", constants.DefaultBindAddr)

	ch := channel.New(constants.DefaultBindAddr, constants.BusCapacity, constants.SinkCapacity)

	go func() {
		if err := ch.Serve(); err != nil {
			logging.Error("control channel stopped", "error", err)
		}
	}()

	echoPump(ch)
}

// echoPump forwards every message published on bus into sink until the
// bus is closed, acting as the process-lifetime bridge between whichever
// session most recently published something and whichever session is
// currently connected to read it.
func echoPump(ch *channel.Channel) {
	handle := ch.Bus.Subscribe()
	defer handle.Unsubscribe()
	for {
		msg, ok := handle.Recv()
		if !ok {
			return
		}
		if err := ch.Sink.Send(msg); err != nil {
			return
		}
	}
}
