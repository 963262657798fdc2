// Package telnet implements the RFC 854/1143/857/1073/1091 telnet protocol
// engine: an incremental byte parser (C1), an RFC 1143 Q-Method option
// negotiator (C2), per-option sub-negotiation handlers (C3), and a stream
// wrapper that composes all three into a transparent byte stream (C4).
package telnet

// IAC is the "Interpret As Command" byte that introduces telnet commands.
const IAC byte = 255

// Command bytes that can follow IAC.
const (
	CmdSE   byte = 240 // end sub-negotiation
	CmdNOP  byte = 241
	CmdDM   byte = 242
	CmdBRK  byte = 243
	CmdIP   byte = 244
	CmdAO   byte = 245
	CmdAYT  byte = 246
	CmdEC   byte = 247
	CmdEL   byte = 248
	CmdGA   byte = 249
	CmdSB   byte = 250 // begin sub-negotiation
	CmdWILL byte = 251
	CmdWONT byte = 252
	CmdDO   byte = 253
	CmdDONT byte = 254
)

// isOptionCommand reports whether cmd is one of WILL/WONT/DO/DONT, i.e. a
// command that carries a following option byte.
func isOptionCommand(cmd byte) bool {
	return cmd == CmdWILL || cmd == CmdWONT || cmd == CmdDO || cmd == CmdDONT
}

// isStandaloneCommand reports whether cmd is complete the moment IAC <cmd>
// is read.
func isStandaloneCommand(cmd byte) bool {
	switch cmd {
	case CmdSE, CmdNOP, CmdDM, CmdBRK, CmdIP, CmdAO, CmdAYT, CmdEC, CmdEL, CmdGA:
		return true
	default:
		return false
	}
}

// Option is a telnet option code (0..255).
type Option byte

// Options recognized at the protocol-policy level. Values per the IANA
// telnet options registry and the common MUD-protocol extension table.
const (
	OptBinary           Option = 0
	OptEcho             Option = 1
	OptSuppressGoAhead  Option = 3
	OptStatus           Option = 5
	OptTerminalType     Option = 24
	OptNAWS             Option = 31
	OptLinemode         Option = 34
	OptLogout           Option = 18
	OptNewEnviron       Option = 39
	OptMSDP             Option = 69
	OptMSSP             Option = 70
	OptMCCP1            Option = 85
	OptMCCP2            Option = 86
	OptMXP              Option = 91
	OptATCP             Option = 200
	OptGMCP             Option = 201
)

func (o Option) String() string {
	switch o {
	case OptBinary:
		return "BINARY"
	case OptEcho:
		return "ECHO"
	case OptSuppressGoAhead:
		return "SUPPRESS_GO_AHEAD"
	case OptStatus:
		return "STATUS"
	case OptTerminalType:
		return "TERMINAL_TYPE"
	case OptNAWS:
		return "NAWS"
	case OptLinemode:
		return "LINEMODE"
	case OptLogout:
		return "LOGOUT"
	case OptNewEnviron:
		return "NEW_ENVIRON"
	case OptMSDP:
		return "MSDP"
	case OptMSSP:
		return "MSSP"
	case OptMCCP1:
		return "MCCP1"
	case OptMCCP2:
		return "MCCP2"
	case OptMXP:
		return "MXP"
	case OptATCP:
		return "ATCP"
	case OptGMCP:
		return "GMCP"
	default:
		return "UNKNOWN"
	}
}

// SubCommand is the first byte of a Terminal-Type/NAWS-style sub-negotiation
// payload, per §4.3: 0 = SEND (request), 1 = IS (response). This matches
// the distilled spec and original_source/telnet-negotiation/src/options/
// terminal_type.rs exactly, which intentionally differs from RFC 1091's
// literal IS=0/SEND=1 assignment.
type SubCommand byte

const (
	SubSend SubCommand = 0
	SubIs   SubCommand = 1
)
