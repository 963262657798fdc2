package telnet

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/sdsalyer/moonbase/internal/logging"
)

// Stream wraps a net.Conn and presents a transparent io.ReadWriter: telnet
// command sequences are parsed out, negotiated, and dispatched to the C3
// option handlers automatically; Read returns only application data bytes,
// and Write transparently escapes any literal 0xFF byte in outgoing data.
//
// Grounded on original_source/telnet-negotiation/src/stream.rs's TelnetStream,
// with the sub-negotiation dispatch (left as an unimplemented stub there)
// completed here per §4.4.
type Stream struct {
	conn   net.Conn
	reader *bufio.Reader
	parser *Parser
	neg    *Negotiator

	echo     *EchoHandler
	naws     *NAWSHandler
	termType *TerminalTypeHandler

	pending []byte

	legacyOutput bool
	cp437        *cp437Encoder

	OnNAWSUpdate         func(WindowSize)
	OnTerminalTypeUpdate func(string, TerminalCapabilities)
	OnEchoStateChange    func(EchoState)
}

// NewStream wraps conn. The caller drives negotiation via RequestRemote/
// RequestLocal after construction. Stream never initiates a request on its
// own; inside Read it only answers the peer's requests, and follows an
// accepted WILL TERMINAL-TYPE with a SEND.
func NewStream(conn net.Conn) *Stream {
	return &Stream{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		parser:   NewParser(),
		neg:      NewNegotiator(),
		echo:     NewEchoHandler(),
		naws:     NewNAWSHandler(),
		termType: NewTerminalTypeHandler(),
	}
}

// Negotiator exposes the underlying Q-Method state machine so the session
// controller can query IsEnabled or issue ad-hoc requests outside the
// Request{Remote,Local} helpers below.
func (s *Stream) Negotiator() *Negotiator { return s.neg }

// Echo, NAWS, and TerminalType expose the C3 handlers for read-only queries
// (current echo mode, last reported window size / terminal type string).
func (s *Stream) Echo() *EchoHandler             { return s.echo }
func (s *Stream) NAWS() *NAWSHandler             { return s.naws }
func (s *Stream) TerminalType() *TerminalTypeHandler { return s.termType }

// SetLegacyOutputEncoding turns CP437 output transcoding on or off. The
// session controller enables this whenever the configured box style is
// "legacy", whatever terminal type was negotiated; it is off by default so
// modern UTF-8-capable clients are never touched.
func (s *Stream) SetLegacyOutputEncoding(enable bool) {
	s.legacyOutput = enable
	if enable && s.cp437 == nil {
		s.cp437 = newCP437Encoder()
	}
}

// RequestRemote asks the peer to enable (or, if enable is false, disable) an
// option it controls (e.g. DO NAWS, DO TERMINAL_TYPE) and writes the
// resulting WILL/WONT/DO/DONT bytes, if any, to the connection.
func (s *Stream) RequestRemote(o Option, enable bool) error {
	return s.applyRequest(SideRemote, o, enable)
}

// RequestLocal asks to enable (or disable) an option this side controls
// (e.g. WILL ECHO for password masking).
func (s *Stream) RequestLocal(o Option, enable bool) error {
	return s.applyRequest(SideLocal, o, enable)
}

func (s *Stream) applyRequest(side Side, o Option, enable bool) error {
	var res Result
	if enable {
		res = s.neg.RequestEnable(side, o)
	} else {
		res = s.neg.RequestDisable(side, o)
	}
	if res.Err != "" {
		logging.Debug("telnet: request %v %v enable=%v: %s", side, o, enable, res.Err)
	}
	if res.Response == nil {
		return nil
	}
	_, err := s.conn.Write(res.Response.Bytes())
	return err
}

// Read returns decoded application-data bytes, transparently driving
// negotiation and option sub-negotiation behind the scenes. It blocks until
// at least one application byte is available or the connection errors.
func (s *Stream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		buf := make([]byte, 4096)
		n, err := s.reader.Read(buf)
		if n > 0 {
			data, seqs := s.parser.Parse(buf[:n])
			s.pending = append(s.pending, data...)
			for _, seq := range seqs {
				if serr := s.dispatch(seq); serr != nil {
					logging.Debug("telnet: dispatch error: %v", serr)
				}
			}
		}
		if err != nil {
			if len(s.pending) > 0 {
				break
			}
			return 0, err
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// dispatch applies one parsed Sequence: negotiation sequences update the
// Q-Method state machine (writing any required response) and, for options
// that carry sub-negotiation, kick off the follow-up exchange (e.g.
// requesting SEND once the peer agrees to TERMINAL_TYPE); sub-negotiation
// sequences are handed to the owning C3 handler.
func (s *Stream) dispatch(seq Sequence) error {
	switch seq.Kind {
	case SeqNegotiation:
		return s.dispatchNegotiation(seq)
	case SeqSubNegotiation:
		return s.dispatchSubNegotiation(seq)
	case SeqCommand, SeqEscapedData:
		return nil
	default:
		return nil
	}
}

func (s *Stream) dispatchNegotiation(seq Sequence) error {
	var res Result
	switch seq.Cmd {
	case CmdWILL:
		res = s.neg.HandleWill(seq.Option)
	case CmdWONT:
		res = s.neg.HandleWont(seq.Option)
	case CmdDO:
		res = s.neg.HandleDo(seq.Option)
	case CmdDONT:
		res = s.neg.HandleDont(seq.Option)
	default:
		return nil
	}
	if res.Err != "" {
		logging.Debug("telnet: negotiation %s %s: %s", seq.Option, cmdName(seq.Cmd), res.Err)
	}
	if res.Response != nil {
		if _, err := s.conn.Write(res.Response.Bytes()); err != nil {
			return err
		}
	}

	switch seq.Option {
	case OptEcho:
		if seq.Cmd == CmdWILL || seq.Cmd == CmdWONT {
			if res.Enabled {
				s.echo.SetState(EchoRemote)
			} else {
				s.echo.SetState(EchoLocal)
			}
			if s.OnEchoStateChange != nil {
				s.OnEchoStateChange(s.echo.State())
			}
		}
	case OptTerminalType:
		if seq.Cmd == CmdWILL && res.Enabled {
			data, err := s.termType.GenerateSubNegotiation(SubSend)
			if err != nil {
				return err
			}
			sub := SubNegotiation(OptTerminalType, data)
			if _, err := s.conn.Write(sub.Bytes()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Stream) dispatchSubNegotiation(seq Sequence) error {
	switch seq.Option {
	case OptNAWS:
		if _, err := s.naws.HandleSubNegotiation(seq.Data); err != nil {
			return err
		}
		if size, ok := s.naws.Size(); ok && s.OnNAWSUpdate != nil {
			s.OnNAWSUpdate(size)
		}
		return nil
	case OptTerminalType:
		if _, err := s.termType.HandleSubNegotiation(seq.Data); err != nil {
			return err
		}
		if tt, ok := s.termType.TerminalType(); ok && s.OnTerminalTypeUpdate != nil {
			s.OnTerminalTypeUpdate(tt, s.termType.Capabilities())
		}
		return nil
	default:
		logging.Debug("telnet: unhandled sub-negotiation for option %s", seq.Option)
		return nil
	}
}

// Write escapes every literal 0xFF byte as IAC IAC and writes the result to
// the connection, returning the count of original (unescaped) bytes
// consumed from p on success.
func (s *Stream) Write(p []byte) (int, error) {
	consumed := len(p)
	wire := p
	if s.legacyOutput && s.cp437 != nil {
		wire = s.cp437.Encode(p)
	}

	out := make([]byte, 0, len(wire))
	for _, b := range wire {
		out = append(out, b)
		if b == IAC {
			out = append(out, IAC)
		}
	}
	if _, err := s.conn.Write(out); err != nil {
		return 0, err
	}
	return consumed, nil
}

// Close closes the underlying connection.
func (s *Stream) Close() error { return s.conn.Close() }

// SetReadDeadline forwards to the underlying connection, letting the
// session controller enforce connection/login/idle timeouts (§5).
func (s *Stream) SetReadDeadline(t time.Time) error { return s.conn.SetReadDeadline(t) }

// RemoteAddr returns the underlying connection's remote address.
func (s *Stream) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

func cmdName(cmd byte) string {
	switch cmd {
	case CmdWILL:
		return "WILL"
	case CmdWONT:
		return "WONT"
	case CmdDO:
		return "DO"
	case CmdDONT:
		return "DONT"
	default:
		return "?"
	}
}

var _ io.ReadWriteCloser = (*Stream)(nil)
