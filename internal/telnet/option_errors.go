package telnet

import "fmt"

// OptionErrorKind classifies why a C3 option handler's HandleSubNegotiation
// or GenerateSubNegotiation call failed, matching the three-way distinction
// original_source's OptionError enum makes (§4.3).
type OptionErrorKind int

const (
	// KindInvalidData means the sub-negotiation payload itself is malformed
	// for the option that owns it: wrong length, empty, missing data.
	KindInvalidData OptionErrorKind = iota
	// KindInvalidState means the call is well-formed but not valid for the
	// option's role (e.g. the server receiving a SEND request, which only
	// the client should ever send).
	KindInvalidState
	// KindUnsupportedCommand means the sub-negotiation command byte itself
	// is not one this option recognizes.
	KindUnsupportedCommand
)

func (k OptionErrorKind) String() string {
	switch k {
	case KindInvalidData:
		return "invalid data"
	case KindInvalidState:
		return "invalid state"
	case KindUnsupportedCommand:
		return "unsupported command"
	default:
		return "unknown"
	}
}

// OptionError is the error type every C3 option handler returns on failure,
// carrying enough structure for a caller to switch on Kind rather than
// parsing error strings.
type OptionError struct {
	Kind    OptionErrorKind
	Option  Option
	Command byte // meaningful only when Kind == KindUnsupportedCommand
	Message string
}

func (e *OptionError) Error() string {
	if e.Kind == KindUnsupportedCommand {
		return fmt.Sprintf("telnet: option %s: unsupported command %d", e.Option, e.Command)
	}
	return fmt.Sprintf("telnet: option %s: %s", e.Option, e.Message)
}

// errInvalidData is returned when a sub-negotiation payload is malformed
// for the option that owns it (wrong length, empty, missing data).
func errInvalidData(o Option, format string, args ...any) error {
	return &OptionError{Kind: KindInvalidData, Option: o, Message: fmt.Sprintf(format, args...)}
}

// errInvalidState is returned when a call is well-formed but invalid given
// the option's role in the negotiation (e.g. the server being asked to
// handle a SEND request, which only the client sends).
func errInvalidState(o Option, format string, args ...any) error {
	return &OptionError{Kind: KindInvalidState, Option: o, Message: fmt.Sprintf(format, args...)}
}

// errUnsupportedCommand is returned when a sub-negotiation command byte is
// not one the option recognizes.
func errUnsupportedCommand(o Option, cmd byte) error {
	return &OptionError{Kind: KindUnsupportedCommand, Option: o, Command: cmd}
}

// errUnsupportedSubNegotiation is returned by options that carry no
// sub-negotiation payload at all (ECHO) when asked to handle or generate one.
func errUnsupportedSubNegotiation(o Option) error {
	return &OptionError{Kind: KindInvalidState, Option: o, Message: "option does not support sub-negotiation"}
}
