package telnet

// SequenceKind tags the variant of a parsed telnet Sequence.
type SequenceKind int

const (
	// SeqNegotiation is a WILL/WONT/DO/DONT <option> triple.
	SeqNegotiation SequenceKind = iota
	// SeqSubNegotiation is IAC SB <option> <data...> IAC SE.
	SeqSubNegotiation
	// SeqCommand is a standalone command (NOP, AYT, GA, ...).
	SeqCommand
	// SeqEscapedData is an IAC IAC pair that decodes to a literal 0xFF data byte.
	SeqEscapedData
)

// Sequence is one parsed telnet protocol event, as opposed to plain
// application data bytes.
type Sequence struct {
	Kind   SequenceKind
	Cmd    byte   // meaningful for SeqNegotiation and SeqCommand
	Option Option // meaningful for SeqNegotiation and SeqSubNegotiation
	Data   []byte // sub-negotiation payload, meaningful for SeqSubNegotiation
}

// Negotiation constructs a SeqNegotiation sequence.
func Negotiation(cmd byte, opt Option) Sequence {
	return Sequence{Kind: SeqNegotiation, Cmd: cmd, Option: opt}
}

// SubNegotiation constructs a SeqSubNegotiation sequence.
func SubNegotiation(opt Option, data []byte) Sequence {
	return Sequence{Kind: SeqSubNegotiation, Option: opt, Data: data}
}

// Command constructs a SeqCommand sequence.
func Command(cmd byte) Sequence {
	return Sequence{Kind: SeqCommand, Cmd: cmd}
}

// EscapedData constructs a SeqEscapedData sequence (always value 0xFF).
func EscapedData() Sequence {
	return Sequence{Kind: SeqEscapedData, Cmd: IAC}
}

// Bytes re-serializes a Sequence back to the wire bytes that would produce
// it, used by the parser round-trip invariant test (§8 invariant 1) and by
// the negotiator when emitting a response.
func (s Sequence) Bytes() []byte {
	switch s.Kind {
	case SeqNegotiation:
		return []byte{IAC, s.Cmd, byte(s.Option)}
	case SeqSubNegotiation:
		out := make([]byte, 0, len(s.Data)+5)
		out = append(out, IAC, CmdSB, byte(s.Option))
		out = append(out, s.Data...)
		out = append(out, IAC, CmdSE)
		return out
	case SeqCommand:
		return []byte{IAC, s.Cmd}
	case SeqEscapedData:
		return []byte{IAC, IAC}
	default:
		return nil
	}
}
