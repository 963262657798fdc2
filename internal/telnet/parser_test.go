package telnet

import (
	"bytes"
	"testing"
)

func TestParserPlainData(t *testing.T) {
	p := NewParser()
	data, seqs := p.Parse([]byte("hello"))
	if string(data) != "hello" {
		t.Fatalf("data = %q, want %q", data, "hello")
	}
	if len(seqs) != 0 {
		t.Fatalf("seqs = %v, want none", seqs)
	}
}

func TestParserNegotiation(t *testing.T) {
	p := NewParser()
	data, seqs := p.Parse([]byte{IAC, CmdWILL, byte(OptEcho)})
	if len(data) != 0 {
		t.Fatalf("data = %v, want none", data)
	}
	if len(seqs) != 1 || seqs[0].Kind != SeqNegotiation || seqs[0].Cmd != CmdWILL || seqs[0].Option != OptEcho {
		t.Fatalf("seqs = %+v, want one WILL ECHO", seqs)
	}
}

func TestParserSubNegotiation(t *testing.T) {
	p := NewParser()
	msg := []byte{IAC, CmdSB, byte(OptNAWS), 0, 80, 0, 24, IAC, CmdSE}
	data, seqs := p.Parse(msg)
	if len(data) != 0 {
		t.Fatalf("data = %v, want none", data)
	}
	if len(seqs) != 1 || seqs[0].Kind != SeqSubNegotiation {
		t.Fatalf("seqs = %+v, want one sub-negotiation", seqs)
	}
	if !bytes.Equal(seqs[0].Data, []byte{0, 80, 0, 24}) {
		t.Fatalf("sub-negotiation data = %v", seqs[0].Data)
	}
}

// TestParserSubNegotiationIACInsideIsMalformed confirms IAC appearing inside
// a sub-negotiation payload without an immediately following SE degrades to
// raw data and aborts the sub-negotiation, matching original_source's
// parser.rs, which never accepts an escaped-0xFF sub-negotiation payload.
func TestParserSubNegotiationIACInsideIsMalformed(t *testing.T) {
	p := NewParser()
	msg := []byte{IAC, CmdSB, byte(OptTerminalType), byte(SubIs), 'X', IAC, IAC, 'Y'}
	data, seqs := p.Parse(msg)
	if len(seqs) != 0 {
		t.Fatalf("seqs = %+v, want none (malformed sub-negotiation aborts)", seqs)
	}
	want := []byte{IAC, IAC, 'Y'}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %v, want %v", data, want)
	}
}

func TestParserIACEscapeInData(t *testing.T) {
	p := NewParser()
	data, seqs := p.Parse([]byte{'a', IAC, IAC, 'b'})
	if !bytes.Equal(data, []byte{'a', 0xFF, 'b'}) {
		t.Fatalf("data = %v, want a-FF-b", data)
	}
	if len(seqs) != 1 || seqs[0].Kind != SeqEscapedData {
		t.Fatalf("seqs = %+v, want one EscapedData", seqs)
	}
}

func TestParserSplitAcrossChunks(t *testing.T) {
	p := NewParser()
	d1, s1 := p.Parse([]byte{'x', IAC})
	d2, s2 := p.Parse([]byte{CmdWILL, byte(OptNAWS), 'y'})
	data := append(d1, d2...)
	seqs := append(s1, s2...)
	if string(data) != "xy" {
		t.Fatalf("data = %q, want %q", data, "xy")
	}
	if len(seqs) != 1 || seqs[0].Option != OptNAWS {
		t.Fatalf("seqs = %+v", seqs)
	}
}

func TestParserMalformedCommandDegrades(t *testing.T) {
	p := NewParser()
	// IAC followed by a byte that isn't a recognized command: degrade to raw data.
	data, seqs := p.Parse([]byte{IAC, 0x01})
	if !bytes.Equal(data, []byte{IAC, 0x01}) {
		t.Fatalf("data = %v, want raw IAC 0x01", data)
	}
	if len(seqs) != 0 {
		t.Fatalf("seqs = %+v, want none", seqs)
	}
}

func TestParserStandaloneCommand(t *testing.T) {
	p := NewParser()
	data, seqs := p.Parse([]byte{IAC, CmdAYT})
	if len(data) != 0 {
		t.Fatalf("data = %v, want none", data)
	}
	if len(seqs) != 1 || seqs[0].Kind != SeqCommand || seqs[0].Cmd != CmdAYT {
		t.Fatalf("seqs = %+v, want one AYT command", seqs)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	cases := []Sequence{
		Negotiation(CmdWILL, OptEcho),
		SubNegotiation(OptNAWS, []byte{0, 80, 0, 24}),
		Command(CmdAYT),
		EscapedData(),
	}
	for _, want := range cases {
		wire := want.Bytes()
		p := NewParser()
		data, seqs := p.Parse(wire)
		if want.Kind == SeqEscapedData {
			if !bytes.Equal(data, []byte{0xFF}) || len(seqs) != 1 {
				t.Fatalf("round-trip escaped data failed: data=%v seqs=%+v", data, seqs)
			}
			continue
		}
		if len(seqs) != 1 {
			t.Fatalf("round-trip %+v produced %+v", want, seqs)
		}
		got := seqs[0]
		if got.Kind != want.Kind || got.Cmd != want.Cmd || got.Option != want.Option || !bytes.Equal(got.Data, want.Data) {
			t.Fatalf("round-trip %+v produced %+v", want, got)
		}
	}
}
