package telnet

import "testing"

func wantOptionErrorKind(t *testing.T, err error, kind OptionErrorKind) {
	t.Helper()
	oerr, ok := err.(*OptionError)
	if !ok {
		t.Fatalf("err = %v (%T), want *OptionError", err, err)
	}
	if oerr.Kind != kind {
		t.Fatalf("err.Kind = %v, want %v", oerr.Kind, kind)
	}
}

func TestNAWSHandlerRejectsPayloadsOfWrongLength(t *testing.T) {
	n := NewNAWSHandler()
	for _, data := range [][]byte{nil, {0}, {0, 80}, {0, 80, 0, 24, 0}} {
		_, err := n.HandleSubNegotiation(data)
		if err == nil {
			t.Fatalf("HandleSubNegotiation(%v): want error, got nil", data)
		}
		wantOptionErrorKind(t, err, KindInvalidData)
	}
}

func TestNAWSHandlerAcceptsExactlyFourBytes(t *testing.T) {
	n := NewNAWSHandler()
	if _, err := n.HandleSubNegotiation([]byte{0, 80, 0, 24}); err != nil {
		t.Fatalf("HandleSubNegotiation: unexpected error: %v", err)
	}
	size, ok := n.Size()
	if !ok || size.Width != 80 || size.Height != 24 {
		t.Fatalf("Size() = %+v, %v, want {80 24}, true", size, ok)
	}
}

func TestTerminalTypeHandlerEmptyPayloadIsInvalidData(t *testing.T) {
	tt := NewTerminalTypeHandler()
	_, err := tt.HandleSubNegotiation(nil)
	if err == nil {
		t.Fatal("HandleSubNegotiation(nil): want error, got nil")
	}
	wantOptionErrorKind(t, err, KindInvalidData)
}

func TestTerminalTypeHandlerISWithoutDataIsInvalidData(t *testing.T) {
	tt := NewTerminalTypeHandler()
	_, err := tt.HandleSubNegotiation([]byte{byte(SubIs)})
	if err == nil {
		t.Fatal("HandleSubNegotiation(IS, no data): want error, got nil")
	}
	wantOptionErrorKind(t, err, KindInvalidData)
}

func TestTerminalTypeHandlerSendFromClientIsInvalidState(t *testing.T) {
	tt := NewTerminalTypeHandler()
	_, err := tt.HandleSubNegotiation([]byte{byte(SubSend)})
	if err == nil {
		t.Fatal("HandleSubNegotiation(SEND): want error, got nil")
	}
	wantOptionErrorKind(t, err, KindInvalidState)
}

func TestTerminalTypeHandlerUnknownCommandIsUnsupportedCommand(t *testing.T) {
	tt := NewTerminalTypeHandler()
	_, err := tt.HandleSubNegotiation([]byte{0x7f, 'X'})
	if err == nil {
		t.Fatal("HandleSubNegotiation(0x7f): want error, got nil")
	}
	wantOptionErrorKind(t, err, KindUnsupportedCommand)
}

func TestTerminalTypeHandlerAcceptsIS(t *testing.T) {
	tt := NewTerminalTypeHandler()
	if _, err := tt.HandleSubNegotiation(append([]byte{byte(SubIs)}, "xterm-256color"...)); err != nil {
		t.Fatalf("HandleSubNegotiation: unexpected error: %v", err)
	}
	termType, ok := tt.TerminalType()
	if !ok || termType != "xterm-256color" {
		t.Fatalf("TerminalType() = %q, %v, want %q, true", termType, ok, "xterm-256color")
	}
	if !tt.Capabilities().ANSI {
		t.Fatalf("Capabilities().ANSI = false, want true for xterm-256color")
	}
}
