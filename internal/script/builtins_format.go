package script

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/behrlich/luatap/internal/constants"
	"github.com/behrlich/luatap/internal/disasm"
	lua "github.com/yuin/gopher-lua"
)

// luaLog implements log([arg...]): pretty-prints every argument and sends
// the space-joined result to the console, the channel print() does not
// reach (print() still goes to the host process's own stdout, unmodified).
// Returns the number of bytes published, including the trailing newline.
func (r *Runtime) luaLog(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, Pretty(L.Get(i)))
	}
	msg := strings.Join(parts, " ") + "\n"
	r.console.Send(msg)
	L.Push(lua.LNumber(len(msg)))
	return 1
}

// luaHelp implements help(): publishes the builtin reference text to the
// console and returns nil.
func (r *Runtime) luaHelp(L *lua.LState) int {
	r.console.Send(constants.HelpText)
	L.Push(lua.LNil)
	return 1
}

// luaHexdump implements hexdump(bytes, [ret]): with ret truthy, returns the
// dump as a string instead of publishing it; otherwise publishes it and
// returns nil.
func (r *Runtime) luaHexdump(L *lua.LState) int {
	data := checkByteSequence(L, 1)
	ret := L.OptBool(2, false)

	dump := hex.Dump(data)
	if ret {
		L.Push(lua.LString(dump))
		return 1
	}
	r.console.Send(dump)
	L.Push(lua.LNil)
	return 1
}

// luaDecomp implements decomp(bytes, [ret]): disassembles the given raw
// machine code at the host's native bitness. With ret truthy, returns a
// table of mnemonic strings; otherwise publishes a formatted listing and
// returns the instruction count.
func (r *Runtime) luaDecomp(L *lua.LState) int {
	code := checkByteSequence(L, 1)
	ret := L.OptBool(2, false)

	instrs := disasm.Decode(code, hostBitness())
	if ret {
		tbl := L.NewTable()
		for _, in := range instrs {
			tbl.Append(lua.LString(in.Text))
		}
		L.Push(tbl)
		return 1
	}
	r.console.Send(disasm.FormatListing(instrs))
	L.Push(lua.LNumber(len(instrs)))
	return 1
}

// luaHex implements x(value, [prefix]): renders value as hex digits,
// prefixed with "0x" unless prefix is explicitly false.
func luaHex(L *lua.LState) int {
	v := L.Get(1)
	prefix := L.OptBool(2, true)

	digits, err := hexDigits(v)
	if err != nil {
		L.RaiseError("x: %s", err.Error())
		return 0
	}
	if prefix {
		digits = "0x" + digits
	}
	L.Push(lua.LString(digits))
	return 1
}

// hexDigits computes the hex digits for a single value, with no "0x"
// prefix: integers render as %02X, booleans as 00/01, nil as 00, strings
// as the per-byte %02X concatenation of their bytes, and tables as the
// concatenation of their sequence elements' hex digits (each computed
// without its own prefix). Floats, functions, threads, and userdata have
// no hex representation and are rejected.
func hexDigits(v lua.LValue) (string, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return "00", nil
	case lua.LBool:
		if bool(val) {
			return "01", nil
		}
		return "00", nil
	case lua.LNumber:
		f := float64(val)
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("value is not an integer")
		}
		return fmt.Sprintf("%02X", int64(val)), nil
	case lua.LString:
		var b strings.Builder
		for _, c := range []byte(val) {
			fmt.Fprintf(&b, "%02X", c)
		}
		return b.String(), nil
	case *lua.LTable:
		var b strings.Builder
		n := val.Len()
		for i := 1; i <= n; i++ {
			part, err := hexDigits(val.RawGetInt(i))
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %s", v.Type().String())
	}
}

// luaBytes implements b(value): returns the raw byte encoding of value as
// a Lua string.
func luaBytes(L *lua.LState) int {
	v := L.Get(1)
	bs, err := bytesValue(v)
	if err != nil {
		L.RaiseError("b: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(bs))
	return 1
}

// bytesValue computes the byte encoding of a single value: nil encodes to
// no bytes, booleans to a single 0/1 byte, integers to their significant
// little-endian bytes, strings to their raw bytes, and tables to the
// concatenation of their sequence elements' byte encodings. Floats,
// functions, threads, and userdata have no byte encoding and are rejected.
func bytesValue(v lua.LValue) ([]byte, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		if bool(val) {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case lua.LNumber:
		f := float64(val)
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("value is not an integer")
		}
		return significantLittleEndianBytes(int64(val)), nil
	case lua.LString:
		return []byte(val), nil
	case *lua.LTable:
		var out []byte
		n := val.Len()
		for i := 1; i <= n; i++ {
			part, err := bytesValue(val.RawGetInt(i))
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type().String())
	}
}

// significantLittleEndianBytes encodes n as little-endian bytes, dropping
// trailing high bytes while both the dropped byte and the remaining
// shifted value are zero. This keeps small non-negative integers compact
// (1 byte for 0 < n < 256, and no bytes at all for n == 0) while leaving
// negative numbers at full width, since their high bytes are 0xFF rather
// than 0x00.
func significantLittleEndianBytes(n int64) []byte {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(n >> (8 * i))
	}
	length := len(buf)
	for length > 0 && buf[length-1] == 0 && n>>(8*(length-1)) == 0 {
		length--
	}
	return buf[:length]
}

// checkByteSequence accepts either a Lua string or a table of byte integers
// for argument n, matching the original's Vec<u8>, which bridges to Lua as
// either representation depending on call site. Table elements are taken
// as-is, truncated to a byte the same way Go's byte(int64(...)) conversion
// would.
func checkByteSequence(L *lua.LState, n int) []byte {
	switch val := L.Get(n).(type) {
	case lua.LString:
		return []byte(val)
	case *lua.LTable:
		length := val.Len()
		out := make([]byte, length)
		for i := 1; i <= length; i++ {
			num, ok := val.RawGetInt(i).(lua.LNumber)
			if !ok {
				L.ArgError(n, "table must contain only byte values")
			}
			out[i-1] = byte(int64(num))
		}
		return out
	default:
		L.ArgError(n, "string or table of bytes expected")
		return nil
	}
}
