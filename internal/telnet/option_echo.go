package telnet

// OptionHandler is the common C3 contract: a per-option sub-negotiation
// handler composed into the stream by the option code it owns. Grounded on
// original_source/telnet-negotiation/src/options/mod.rs's TelnetOptionHandler
// trait.
type OptionHandler interface {
	OptionCode() Option
	HandleSubNegotiation(data []byte) ([]byte, error)
	GenerateSubNegotiation(cmd SubCommand) ([]byte, error)
	IsActive() bool
	Reset()
}

// EchoState is which side is currently echoing typed characters.
type EchoState int

const (
	// EchoLocal: the client echoes locally (the ordinary, non-password mode).
	EchoLocal EchoState = iota
	// EchoRemote: the server echoes, client does not (used for password input).
	EchoRemote
	// EchoNone: neither side echoes.
	EchoNone
)

// EchoHandler implements RFC 857. It carries no sub-negotiation payload;
// all behavior is driven by the negotiator's WILL/WONT/DO/DONT exchange, and
// this type only tracks which echo mode that exchange settled on.
//
// Grounded on original_source/.../options/echo.rs's EchoOption.
type EchoHandler struct {
	state EchoState
}

// NewEchoHandler returns a handler defaulted to local echo.
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{state: EchoLocal}
}

func (e *EchoHandler) OptionCode() Option { return OptEcho }

func (e *EchoHandler) State() EchoState { return e.state }

// SetState records which side is echoing; called by Stream when a peer
// WILL/WONT ECHO settles OptEcho on the Remote side.
func (e *EchoHandler) SetState(s EchoState) { e.state = s }

// HandleSubNegotiation always fails: ECHO has no sub-negotiation per RFC 857.
func (e *EchoHandler) HandleSubNegotiation(data []byte) ([]byte, error) {
	return nil, errUnsupportedSubNegotiation(OptEcho)
}

// GenerateSubNegotiation always fails, for the same reason.
func (e *EchoHandler) GenerateSubNegotiation(cmd SubCommand) ([]byte, error) {
	return nil, errUnsupportedSubNegotiation(OptEcho)
}

// IsActive is always true: the echo option always affects session behavior,
// even in its default local-echo state.
func (e *EchoHandler) IsActive() bool { return true }

func (e *EchoHandler) Reset() { e.state = EchoLocal }
