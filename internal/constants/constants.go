// Package constants holds the agent's compile-time tunables.
package constants

// DefaultBindAddr is the address the control channel listens on. Not
// user-configurable in the current surface (no env vars or config files are
// read by this agent).
const DefaultBindAddr = "127.0.0.1:13337"

// SinkCapacity is the bounded depth of the control channel's output sink
// (socket-bound MPSC queue).
const SinkCapacity = 64

// BusCapacity is the ring capacity of the broadcast bus that builtins
// publish console output onto.
const BusCapacity = 64

// VersionText identifies the embedded scripting interpreter in the session
// banner.
const VersionText = "Lua 5.1 via gopher-lua"

// HelpText is published verbatim by the help() builtin.
const HelpText = `?> This is a complete lua repl
?> Make scripts or just evaluate expressions
?> print() will go to original process stdout, use log()
?> to send to this console instead
?> Each connection will spawn a fresh repl, but only one
?> concurrent connection is allowed
?> Some ad-hoc functions to work with affected process
?> are already available in this repl globals:
 >  log([arg...])                    print to console rather than stdout
 >  hexdump(bytes, [ret])            print hexdump of given {bytes} to console
 >  decomp(bytes, [ret])             disassemble given {bytes} to console
 >  exit([code])                     immediately terminate process
 >  mmap([a], l, [p], [f], [d], [o]) execute mmap syscall
 >  munmap(ptr, len)                 unmap {len} bytes at {ptr}
 >  mprotect(ptr, len, prot)         set {prot} flags from {ptr} to {ptr+len}
 >  procmaps([ret])                  print process memory maps to console
 >  threads([ret])                   print process threads list to console
 >  read(addr, size)                 read {size} raw bytes at {addr}
 >  write(addr, bytes)               write given {bytes} at {addr}
 >  find(ptr, len, match, [first])   search from {ptr} to {ptr+len} for {match} and return addrs
 >  x(value, [prefix])               show hex representation of given {value}
 >  b(value)                         return byte encoding of given {value}
 >  sigsegv([set])                   get or set SIGSEGV handler state
 >  help()                           print these messages
`
