package telnet

import (
	"net"
	"testing"
	"time"
)

func TestStreamWriteEscapesIAC(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewStream(server)
	done := make(chan struct{})
	go func() {
		n, err := s.Write([]byte{'a', 0xFF, 'b'})
		if err != nil {
			t.Errorf("write: %v", err)
		}
		if n != 3 {
			t.Errorf("n = %d, want 3", n)
		}
		close(done)
	}()

	buf := make([]byte, 4)
	client.SetReadDeadline(time.Now().Add(time.Second))
	nr, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []byte{'a', 0xFF, 0xFF, 'b'}
	if nr != len(want) {
		t.Fatalf("read %d bytes, want %d", nr, len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %x, want %x", i, buf[i], want[i])
		}
	}
	<-done
}

func TestStreamNegotiatesEchoAndPassesData(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewStream(server)

	go func() {
		buf := make([]byte, 64)
		client.SetReadDeadline(time.Now().Add(time.Second))
		n, err := client.Read(buf)
		if err != nil {
			return
		}
		// Expect IAC WILL ECHO, reply IAC DO ECHO, then send "hi".
		if n >= 3 && buf[0] == IAC && buf[1] == CmdWILL && buf[2] == byte(OptEcho) {
			client.Write([]byte{IAC, CmdDO, byte(OptEcho)})
		}
		client.Write([]byte("hi"))
	}()

	if err := s.RequestLocal(OptEcho, true); err != nil {
		t.Fatalf("RequestLocal: %v", err)
	}

	buf := make([]byte, 2)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 2 || string(buf) != "hi" {
		t.Fatalf("Read returned %q, want %q", buf[:n], "hi")
	}
	if !s.Negotiator().IsEnabled(SideLocal, OptEcho) {
		t.Fatalf("expected local ECHO enabled after peer agreed")
	}
}

func TestStreamNAWSUpdateCallback(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewStream(server)
	got := make(chan WindowSize, 1)
	s.OnNAWSUpdate = func(w WindowSize) { got <- w }

	go func() {
		client.Write([]byte{IAC, CmdSB, byte(OptNAWS), 0, 80, 0, 24, IAC, CmdSE})
	}()

	buf := make([]byte, 8)
	readDone := make(chan struct{})
	go func() {
		s.Read(buf) // drains the sub-negotiation; blocks until more data or error
		close(readDone)
	}()

	select {
	case w := <-got:
		if w.Width != 80 || w.Height != 24 {
			t.Fatalf("got %+v, want 80x24", w)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for NAWS callback")
	}
	client.Close()
	<-readDone
}
