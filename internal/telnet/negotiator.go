package telnet

// Side identifies which half of the connection an option state tracks.
// Local = options we enable (we send WILL/WONT, receive DO/DONT).
// Remote = options the peer enables (we send DO/DONT, receive WILL/WONT).
type Side int

const (
	SideLocal Side = iota
	SideRemote
)

// Queue is the RFC 1143 queue bit: whether a second, opposite request
// arrived while negotiation for the first was still in flight.
type Queue int

const (
	QueueEmpty Queue = iota
	QueueOpposite
)

// StateKind is the four-way RFC 1143 Q-Method state.
type StateKind int

const (
	StateNo StateKind = iota
	StateYes
	StateWantNo
	StateWantYes
)

// OptionState is one option's negotiation state on one side.
type OptionState struct {
	Kind  StateKind
	Queue Queue // only meaningful when Kind is StateWantNo or StateWantYes
}

// Result is the outcome of feeding one negotiation event (incoming
// WILL/WONT/DO/DONT, or an outbound request_enable/request_disable) to the
// Negotiator.
type Result struct {
	Response *Sequence
	NewState OptionState
	Enabled  bool
	Err      string // non-empty on a (non-fatal, logged-only) protocol error
}

// Negotiator implements the RFC 1143 Q-Method state machine, grounded on
// original_source/telnet-negotiation/src/negotiation.rs's OptionNegotiator.
type Negotiator struct {
	local       [256]OptionState
	remote      [256]OptionState
	queueEnabled bool
	accept      func(Option) bool
}

// NewNegotiator returns a Negotiator with all 256 options in state NO on
// both sides, the RFC 1143 queue system enabled (the RFC-mandated default),
// and the default accept policy from §4.2.
func NewNegotiator() *Negotiator {
	return &Negotiator{queueEnabled: true, accept: defaultPolicy}
}

// defaultPolicy implements §4.2's acceptance table, grounded 1:1 on
// should_accept_option in negotiation.rs.
func defaultPolicy(o Option) bool {
	switch o {
	case OptEcho, OptSuppressGoAhead, OptNAWS, OptTerminalType, OptBinary, OptNewEnviron, OptGMCP:
		return true
	default:
		return false
	}
}

// SetQueueEnabled toggles the RFC 1143 queue system; defaults to enabled.
func (n *Negotiator) SetQueueEnabled(enabled bool) { n.queueEnabled = enabled }

// SetPolicy overrides the accept policy (default is defaultPolicy).
func (n *Negotiator) SetPolicy(accept func(Option) bool) { n.accept = accept }

// IsEnabled reports whether option is in state YES on side.
func (n *Negotiator) IsEnabled(side Side, o Option) bool {
	return n.stateFor(side, o).Kind == StateYes
}

// State returns the current state of option on side.
func (n *Negotiator) State(side Side, o Option) OptionState {
	return n.stateFor(side, o)
}

func (n *Negotiator) stateFor(side Side, o Option) OptionState {
	if side == SideLocal {
		return n.local[o]
	}
	return n.remote[o]
}

func (n *Negotiator) setState(side Side, o Option, s OptionState) {
	if side == SideLocal {
		n.local[o] = s
	} else {
		n.remote[o] = s
	}
}

// HandleWill processes an incoming WILL (always about the Remote side).
func (n *Negotiator) HandleWill(o Option) Result {
	return n.handleOffer(SideRemote, o, CmdDO, CmdDONT)
}

// HandleDo processes an incoming DO (always about the Local side).
func (n *Negotiator) HandleDo(o Option) Result {
	return n.handleOffer(SideLocal, o, CmdWILL, CmdWONT)
}

// handleOffer implements the shared WILL/DO "peer wants to enable" logic;
// acceptCmd/rejectCmd are DO/DONT for WILL, WILL/WONT for DO.
func (n *Negotiator) handleOffer(side Side, o Option, acceptCmd, rejectCmd byte) Result {
	cur := n.stateFor(side, o)
	switch cur.Kind {
	case StateNo:
		if n.accept(o) {
			ns := OptionState{Kind: StateYes}
			n.setState(side, o, ns)
			seq := Negotiation(acceptCmd, o)
			return Result{Response: &seq, NewState: ns, Enabled: true}
		}
		ns := OptionState{Kind: StateNo}
		n.setState(side, o, ns)
		seq := Negotiation(rejectCmd, o)
		return Result{Response: &seq, NewState: ns, Enabled: false}

	case StateYes:
		return Result{NewState: cur, Enabled: true}

	case StateWantNo:
		errLabel := "DONT answered by WILL"
		if side == SideLocal {
			errLabel = "WONT answered by DO"
		}
		if cur.Queue == QueueEmpty {
			ns := OptionState{Kind: StateNo}
			n.setState(side, o, ns)
			return Result{NewState: ns, Enabled: false, Err: errLabel}
		}
		ns := OptionState{Kind: StateYes}
		n.setState(side, o, ns)
		return Result{NewState: ns, Enabled: true, Err: errLabel}

	case StateWantYes:
		if cur.Queue == QueueEmpty {
			ns := OptionState{Kind: StateYes}
			n.setState(side, o, ns)
			return Result{NewState: ns, Enabled: true}
		}
		ns := OptionState{Kind: StateWantNo, Queue: QueueEmpty}
		n.setState(side, o, ns)
		seq := Negotiation(rejectCmd, o)
		return Result{Response: &seq, NewState: ns, Enabled: false}
	}
	panic("unreachable option state")
}

// HandleWont processes an incoming WONT (always about the Remote side).
func (n *Negotiator) HandleWont(o Option) Result {
	return n.handleRefusal(SideRemote, o, CmdDONT, CmdDO)
}

// HandleDont processes an incoming DONT (always about the Local side).
func (n *Negotiator) HandleDont(o Option) Result {
	return n.handleRefusal(SideLocal, o, CmdWONT, CmdWILL)
}

// handleRefusal implements the shared WONT/DONT "peer is disabling (or
// refusing to enable)" logic; disableCmd/enableCmd are DONT/DO for WONT,
// WONT/WILL for DONT.
func (n *Negotiator) handleRefusal(side Side, o Option, disableCmd, enableCmd byte) Result {
	cur := n.stateFor(side, o)
	switch cur.Kind {
	case StateNo:
		return Result{NewState: cur, Enabled: false}

	case StateYes:
		ns := OptionState{Kind: StateNo}
		n.setState(side, o, ns)
		seq := Negotiation(disableCmd, o)
		return Result{Response: &seq, NewState: ns, Enabled: false}

	case StateWantNo:
		if cur.Queue == QueueEmpty {
			ns := OptionState{Kind: StateNo}
			n.setState(side, o, ns)
			return Result{NewState: ns, Enabled: false}
		}
		ns := OptionState{Kind: StateWantYes, Queue: QueueEmpty}
		n.setState(side, o, ns)
		seq := Negotiation(enableCmd, o)
		return Result{Response: &seq, NewState: ns, Enabled: false}

	case StateWantYes:
		// Refused either way, queue or not.
		ns := OptionState{Kind: StateNo}
		n.setState(side, o, ns)
		return Result{NewState: ns, Enabled: false}
	}
	panic("unreachable option state")
}

// RequestEnable asks to enable option on side (sends DO for Remote, WILL
// for Local), following §4.2's outbound-request table.
func (n *Negotiator) RequestEnable(side Side, o Option) Result {
	cmd := byte(CmdWILL)
	if side == SideRemote {
		cmd = CmdDO
	}
	return n.request(side, o, cmd, true)
}

// RequestDisable asks to disable option on side (sends DONT for Remote,
// WONT for Local).
func (n *Negotiator) RequestDisable(side Side, o Option) Result {
	cmd := byte(CmdWONT)
	if side == SideRemote {
		cmd = CmdDONT
	}
	return n.request(side, o, cmd, false)
}

func (n *Negotiator) request(side Side, o Option, cmd byte, enable bool) Result {
	cur := n.stateFor(side, o)
	if enable {
		switch cur.Kind {
		case StateNo:
			ns := OptionState{Kind: StateWantYes, Queue: QueueEmpty}
			n.setState(side, o, ns)
			seq := Negotiation(cmd, o)
			return Result{Response: &seq, NewState: ns, Enabled: false}
		case StateYes:
			return Result{NewState: cur, Enabled: true, Err: "already enabled"}
		case StateWantNo:
			if !n.queueEnabled {
				return Result{NewState: cur, Enabled: false, Err: "already negotiating"}
			}
			if cur.Queue == QueueEmpty {
				ns := OptionState{Kind: StateWantNo, Queue: QueueOpposite}
				n.setState(side, o, ns)
				return Result{NewState: ns, Enabled: false}
			}
			return Result{NewState: cur, Enabled: false, Err: "already queued enable"}
		case StateWantYes:
			if cur.Queue == QueueEmpty {
				return Result{NewState: cur, Enabled: false, Err: "already negotiating"}
			}
			ns := OptionState{Kind: StateWantYes, Queue: QueueEmpty}
			n.setState(side, o, ns)
			return Result{NewState: ns, Enabled: false}
		}
	} else {
		switch cur.Kind {
		case StateNo:
			return Result{NewState: cur, Enabled: false, Err: "already disabled"}
		case StateYes:
			ns := OptionState{Kind: StateWantNo, Queue: QueueEmpty}
			n.setState(side, o, ns)
			seq := Negotiation(cmd, o)
			return Result{Response: &seq, NewState: ns, Enabled: false}
		case StateWantNo:
			if cur.Queue == QueueEmpty {
				return Result{NewState: cur, Enabled: false, Err: "already negotiating"}
			}
			ns := OptionState{Kind: StateWantNo, Queue: QueueEmpty}
			n.setState(side, o, ns)
			return Result{NewState: ns, Enabled: false}
		case StateWantYes:
			if !n.queueEnabled {
				return Result{NewState: cur, Enabled: false, Err: "already negotiating"}
			}
			if cur.Queue == QueueEmpty {
				ns := OptionState{Kind: StateWantYes, Queue: QueueOpposite}
				n.setState(side, o, ns)
				return Result{NewState: ns, Enabled: false}
			}
			return Result{NewState: cur, Enabled: false, Err: "already queued disable"}
		}
	}
	panic("unreachable option state")
}

// Reset returns every option on both sides to NO.
func (n *Negotiator) Reset() {
	n.local = [256]OptionState{}
	n.remote = [256]OptionState{}
}
