// Package channel implements the agent's control channel: a TCP listener
// on 127.0.0.1 serving one Lua REPL session at a time. Only one connection
// is ever served concurrently; a second client blocks in accept until the
// first disconnects, matching the single-session design of the embedded
// interpreter's console.
package channel

import (
	"net"

	"github.com/behrlich/luatap/internal/broadcast"
	"github.com/behrlich/luatap/internal/logging"
)

// Channel owns the listening socket and the two queues that connect script
// builtins to whichever socket is currently being served: Bus is the
// fan-out broadcast every builtin (and the agent's echo pump) publishes
// onto, and Sink is the bounded single-consumer queue the active session's
// select loop drains to the socket.
type Channel struct {
	addr string
	Bus  *broadcast.Bus
	Sink *broadcast.Sink
}

// New creates a Channel bound to addr, with a fresh bus and sink of the
// given capacities.
func New(addr string, busCapacity, sinkCapacity int) *Channel {
	return &Channel{
		addr: addr,
		Bus:  broadcast.NewBus(busCapacity),
		Sink: broadcast.NewSink(sinkCapacity),
	}
}

// Serve accepts connections on addr until the listener is closed or
// accept fails, serving each one to completion before accepting the next.
func (c *Channel) Serve() error {
	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	logging.Info("control channel listening", "addr", c.addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		logging.Debug("session accepted", "remote", conn.RemoteAddr())
		runSession(conn, c.Bus, c.Sink)
		logging.Debug("session ended", "remote", conn.RemoteAddr())
	}
}
