package channel

import (
	"fmt"
	"net"
	"os"

	"github.com/behrlich/luatap/internal/broadcast"
	"github.com/behrlich/luatap/internal/constants"
	"github.com/behrlich/luatap/internal/logging"
	"github.com/behrlich/luatap/internal/repl"
	"github.com/behrlich/luatap/internal/script"
)

// runSession drives one connection to completion: it builds a fresh Lua
// interpreter and REPL driver, prints the intro banner, then pumps bytes
// from the socket into the driver while relaying anything published to
// sink out to the socket, until the connection closes.
func runSession(conn net.Conn, bus *broadcast.Bus, sink *broadcast.Sink) {
	defer conn.Close()

	console := script.NewConsole(bus)
	rt := script.New(console)
	L := rt.NewState()
	defer L.Close()

	driver := repl.NewDriver(L, console)

	banner := fmt.Sprintf("%s inside process #%d\n@> ", constants.VersionText, os.Getpid())
	if _, err := conn.Write([]byte(banner)); err != nil {
		return
	}

	reads := make(chan []byte)
	readErrs := make(chan error, 1)
	go readLoop(conn, reads, readErrs)

	for {
		select {
		case chunk, ok := <-reads:
			if !ok {
				return
			}
			for _, c := range chunk {
				if err := driver.Feed(c); err != nil {
					logging.Debug("session terminated", "error", err)
					return
				}
			}
		case err := <-readErrs:
			if err != nil {
				logging.Debug("session read ended", "error", err)
			}
			return
		case msg, ok := <-sink.Chan():
			if !ok {
				return
			}
			if _, err := conn.Write([]byte(msg)); err != nil {
				return
			}
		}
	}
}

func readLoop(conn net.Conn, out chan<- []byte, errs chan<- error) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			close(out)
			errs <- err
			return
		}
	}
}
