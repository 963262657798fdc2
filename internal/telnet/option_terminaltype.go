package telnet

import "strings"

// ColorSupport is the depth of color a terminal type implies.
type ColorSupport int

const (
	ColorNone ColorSupport = iota
	ColorBasic8
	Color16
	Color256
	ColorTrue
)

// TerminalCapabilities is what a reported terminal-type string implies the
// client can render, per the classification table in §4.3.
type TerminalCapabilities struct {
	ANSI               bool
	Color              ColorSupport
	CursorPositioning  bool
	ScreenClearing     bool
	CharacterAttrs     bool
	AlternateScreen    bool
}

// TerminalTypeHandler implements terminal-type sub-negotiation and capability
// classification. Grounded on original_source/.../options/terminal_type.rs's
// TerminalTypeOption, including its exact classification table.
type TerminalTypeHandler struct {
	termType string
	caps     TerminalCapabilities
	hasData  bool
}

// NewTerminalTypeHandler returns a handler with no terminal type yet.
func NewTerminalTypeHandler() *TerminalTypeHandler { return &TerminalTypeHandler{} }

func (t *TerminalTypeHandler) OptionCode() Option { return OptTerminalType }

// TerminalType returns the last reported terminal-type string.
func (t *TerminalTypeHandler) TerminalType() (string, bool) { return t.termType, t.hasData }

// Capabilities returns the capabilities classified from the last reported
// terminal-type string.
func (t *TerminalTypeHandler) Capabilities() TerminalCapabilities { return t.caps }

// SetTerminalType records a terminal type and reclassifies capabilities.
func (t *TerminalTypeHandler) SetTerminalType(termType string) {
	t.termType = termType
	t.caps = detectCapabilities(termType)
	t.hasData = true
}

// detectCapabilities implements §4.3's classification table exactly: modern
// 256-color terminals, true-color terminals, standard xterm-family
// terminals, ANSI terminals, VT220/VT102 (ANSI but no color), VT100/VT52
// (no ANSI), and a conservative all-false default for anything else.
func detectCapabilities(termType string) TerminalCapabilities {
	t := strings.ToLower(termType)

	switch {
	case strings.Contains(t, "xterm-256color") || strings.Contains(t, "screen-256color"):
		return TerminalCapabilities{ANSI: true, Color: Color256, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: true, AlternateScreen: true}

	case strings.Contains(t, "xterm-direct") || strings.Contains(t, "tmux-direct"):
		return TerminalCapabilities{ANSI: true, Color: ColorTrue, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: true, AlternateScreen: true}

	case strings.Contains(t, "xterm") || strings.Contains(t, "screen") || strings.Contains(t, "tmux"):
		return TerminalCapabilities{ANSI: true, Color: Color16, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: true, AlternateScreen: true}

	case t == "ansi" || t == "ansi-color":
		return TerminalCapabilities{ANSI: true, Color: ColorBasic8, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: true, AlternateScreen: false}

	case strings.HasPrefix(t, "vt220") || strings.HasPrefix(t, "vt102"):
		return TerminalCapabilities{ANSI: true, Color: ColorNone, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: true, AlternateScreen: false}

	case strings.HasPrefix(t, "vt100") || strings.HasPrefix(t, "vt52"):
		return TerminalCapabilities{ANSI: false, Color: ColorNone, CursorPositioning: true, ScreenClearing: true, CharacterAttrs: false, AlternateScreen: false}

	default:
		return TerminalCapabilities{}
	}
}

// HandleSubNegotiation accepts an IS response (byte 0 == SubIs, followed by
// the terminal-type string). A SEND byte from the peer is a protocol
// violation on the server side — the server is always the one sending SEND.
func (t *TerminalTypeHandler) HandleSubNegotiation(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errInvalidData(OptTerminalType, "empty terminal type data")
	}
	switch SubCommand(data[0]) {
	case SubIs:
		if len(data) < 2 {
			return nil, errInvalidData(OptTerminalType, "IS without data")
		}
		t.SetTerminalType(string(data[1:]))
		return nil, nil
	case SubSend:
		return nil, errInvalidState(OptTerminalType, "server received SEND request")
	default:
		return nil, errUnsupportedCommand(OptTerminalType, data[0])
	}
}

// GenerateSubNegotiation builds a SEND request (the server asking the
// client to report its terminal type) or an IS response carrying the
// reported (or, if none yet, "UNKNOWN") terminal type string.
func (t *TerminalTypeHandler) GenerateSubNegotiation(cmd SubCommand) ([]byte, error) {
	switch cmd {
	case SubSend:
		return []byte{byte(SubSend)}, nil
	case SubIs:
		if t.hasData {
			return append([]byte{byte(SubIs)}, []byte(t.termType)...), nil
		}
		return append([]byte{byte(SubIs)}, []byte("UNKNOWN")...), nil
	default:
		return nil, errUnsupportedCommand(OptTerminalType, byte(cmd))
	}
}

func (t *TerminalTypeHandler) IsActive() bool { return t.hasData }

func (t *TerminalTypeHandler) Reset() {
	t.termType = ""
	t.caps = TerminalCapabilities{}
	t.hasData = false
}
