package luatap

import "github.com/behrlich/luatap/internal/constants"

// BindAddr is the address the control channel listens on.
const BindAddr = constants.DefaultBindAddr

// Memory-protection and mapping flag values bound into every session's Lua
// globals as PROT_* / MAP_*. Host-OS bit values (Linux amd64/arm64 share
// these numeric values).
const (
	ProtNone  = 0x0
	ProtRead  = 0x1
	ProtWrite = 0x2
	ProtExec  = 0x4
	ProtAll   = ProtRead | ProtWrite | ProtExec

	MapAnon    = 0x20
	MapPrivate = 0x02
)
