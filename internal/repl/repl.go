// Package repl implements the character-at-a-time REPL state machine each
// session runs: input arrives one byte at a time off the control channel
// socket (not line-buffered), so backspace, form-feed redraw, and ANSI
// escape sequences are handled explicitly rather than left to a line editor.
package repl

import (
	"errors"
	"strings"

	"github.com/behrlich/luatap/internal/script"
	lua "github.com/yuin/gopher-lua"
)

const (
	bs  = 0x08 // backspace: delete last buffered character
	ff  = 0x0C // form feed (Ctrl-L): redraw the prompt and buffer
	esc = 0x1B // start of a (stubbed) ANSI escape sequence
	cr  = 0x0A // line feed: evaluate the buffered input
)

// ErrTerminated is returned by Feed when the byte just fed ends the
// session: a non-ASCII byte (high bit set) or a NUL byte. Both are fatal
// for the connection, not ordinary input.
var ErrTerminated = errors.New("repl: session terminated")

// escState tracks how many bytes of a swallowed ANSI escape sequence
// remain to be consumed. Every escape sequence absorbs exactly ESC plus
// two further bytes, unconditionally, regardless of their value: this
// agent's console has no cursor-addressable display, so arrow keys and
// similar just need to not corrupt the input buffer. Real CSI sequences
// are variable-length and terminated by a byte in 0x40..0x7E; this stub
// does not parse them properly. That is a known limitation, preserved
// rather than silently upgraded to a real parser.
type escState int

const (
	escNone escState = iota
	escSeenESC
	escSeenByte2
)

// Sender is the narrow interface Driver needs to publish output; satisfied
// by *script.Console.
type Sender interface {
	Send(msg string)
}

// Driver is one session's REPL state: its input buffer, its escape-capture
// state, and the Lua interpreter evaluated input runs against.
type Driver struct {
	L       *lua.LState
	console Sender
	buffer  strings.Builder
	esc     escState
}

// NewDriver creates a Driver around an already-registered Lua state.
func NewDriver(L *lua.LState, console Sender) *Driver {
	return &Driver{L: L, console: console}
}

// Feed consumes a single input byte, possibly producing console output
// (an echoed evaluation result, an error, or a continuation prompt). It
// returns ErrTerminated when the byte ends the session; the caller must
// stop feeding bytes and close the connection.
func (d *Driver) Feed(c byte) error {
	if c&0x80 != 0 {
		return ErrTerminated
	}

	switch d.esc {
	case escSeenESC:
		d.esc = escSeenByte2
		return nil
	case escSeenByte2:
		d.esc = escNone
		return nil
	}

	switch c {
	case bs:
		d.backspace()
	case ff:
		d.console.Send("\n@> " + d.buffer.String())
	case esc:
		d.esc = escSeenESC
	case cr:
		d.evaluate()
	case 0:
		return ErrTerminated
	default:
		d.buffer.WriteByte(c)
	}
	return nil
}

func (d *Driver) backspace() {
	s := d.buffer.String()
	if len(s) == 0 {
		return
	}
	d.buffer.Reset()
	d.buffer.WriteString(s[:len(s)-1])
}

// evaluate compiles and runs the buffered input. A script that fails to
// compile because it's incomplete (the chunk ends mid-expression, e.g. an
// open "(" or "then" with no matching "end") is left in the buffer, with a
// newline appended, so the next line can complete it; the console sees a
// continuation prompt instead of an error.
func (d *Driver) evaluate() {
	src := d.buffer.String()

	fn, err := d.compile(src)
	if err != nil {
		if incompleteInput(err) {
			d.buffer.WriteByte('\n')
			d.console.Send("@    ")
			return
		}
		d.buffer.Reset()
		d.console.Send("! " + err.Error() + "\n@> ")
		return
	}

	d.buffer.Reset()
	d.L.Push(fn)
	top := d.L.GetTop() - 1
	if err := d.L.PCall(0, lua.MultRet, nil); err != nil {
		d.console.Send("! " + err.Error() + "\n@> ")
		return
	}

	nret := d.L.GetTop() - top
	if nret <= 0 {
		d.console.Send("@> ")
		return
	}
	var b strings.Builder
	for i := 0; i < nret; i++ {
		v := d.L.Get(top + 1 + i)
		b.WriteString("=(")
		b.WriteString(script.PrettyType(v))
		b.WriteString(") ")
		b.WriteString(script.Pretty(v))
		b.WriteString("\n")
	}
	d.L.SetTop(top)
	b.WriteString("@> ")
	d.console.Send(b.String())
}

// compile tries to parse src as an expression first (so typing "1+1" at
// the prompt echoes a value), falling back to parsing it as a chunk of
// statements when that fails. The error reported to the caller, and
// checked for incompleteness, is always the one from compiling src as a
// plain chunk: wrapping it in "return " can turn an incomplete chunk into
// a differently-shaped (but still failing) expression, which would hide
// the real "needs more input" signal.
func (d *Driver) compile(src string) (*lua.LFunction, error) {
	plainErr := func() error {
		_, err := d.L.LoadString(src)
		return err
	}()

	if fn, err := d.L.LoadString("return " + src); err == nil {
		return fn, nil
	}
	if plainErr == nil {
		return d.L.LoadString(src)
	}
	return nil, plainErr
}

// incompleteInput reports whether a compile error indicates the chunk is
// merely unfinished (so more input should be read) rather than genuinely
// malformed: gopher-lua reports a parse error hit at end of input with the
// position "at EOF" instead of a line and column.
func incompleteInput(err error) bool {
	return strings.Contains(err.Error(), "at EOF")
}
