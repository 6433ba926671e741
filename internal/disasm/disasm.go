// Package disasm provides the linear x86 disassembly the decomp() builtin
// needs, wrapping golang.org/x/arch/x86/x86asm rather than hand-rolling a
// decoder.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Instruction is one decoded instruction: its offset within the input
// buffer, the raw bytes it was decoded from, and its formatted mnemonic.
type Instruction struct {
	IP   uint64
	Raw  []byte
	Text string
}

// Decode performs a linear decode of code starting at IP 0, in the given
// bitness (32 or 64), stopping at the first byte that fails to decode
// (rather than erroring the whole call) so that trailing garbage or a
// truncated buffer still yields whatever instructions decoded cleanly.
func Decode(code []byte, bitness int) []Instruction {
	mode := 32
	if bitness == 64 {
		mode = 64
	}

	var out []Instruction
	ip := 0
	for ip < len(code) {
		inst, err := x86asm.Decode(code[ip:], mode)
		if err != nil || inst.Len == 0 {
			break
		}
		text := x86asm.IntelSyntax(inst, uint64(ip), nil)
		out = append(out, Instruction{
			IP:   uint64(ip),
			Raw:  code[ip : ip+inst.Len],
			Text: text,
		})
		ip += inst.Len
	}
	return out
}

// FormatListing renders instructions the way decomp() publishes them when
// not asked to return its result: "IP:      raw bytes                     mnemonic",
// with the raw-bytes column padded to 30 characters.
func FormatListing(instrs []Instruction) string {
	var b strings.Builder
	for _, in := range instrs {
		raw := rawHex(in.Raw)
		pad := 30 - len(raw)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "%08X:      %s%s%s\n", in.IP, raw, strings.Repeat(" ", pad), in.Text)
	}
	return b.String()
}

func rawHex(raw []byte) string {
	var b strings.Builder
	for _, by := range raw {
		fmt.Fprintf(&b, "%02x ", by)
	}
	return b.String()
}
