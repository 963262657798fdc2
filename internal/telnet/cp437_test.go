package telnet

import (
	"bytes"
	"net"
	"testing"
)

func TestCP437EncoderTranscodesBoxDrawingRunes(t *testing.T) {
	enc := newCP437Encoder()
	out := enc.Encode([]byte("═══"))

	want := []byte{0xCD, 0xCD, 0xCD}
	if !bytes.Equal(out, want) {
		t.Fatalf("unexpected output: got %x want %x", out, want)
	}
}

func TestCP437EncoderPassesANSISequencesThrough(t *testing.T) {
	enc := newCP437Encoder()
	out := enc.Encode([]byte("\x1b[31m═\x1b[0m"))

	want := append([]byte("\x1b[31m"), 0xCD)
	want = append(want, []byte("\x1b[0m")...)
	if !bytes.Equal(out, want) {
		t.Fatalf("unexpected output: got %x want %x", out, want)
	}
}

func TestCP437EncoderStatePersistsAcrossWrites(t *testing.T) {
	enc := newCP437Encoder()
	var out bytes.Buffer
	out.Write(enc.Encode([]byte("\x1b[")))
	out.Write(enc.Encode([]byte("31m═\x1b[0m")))

	want := append([]byte("\x1b[31m"), 0xCD)
	want = append(want, []byte("\x1b[0m")...)
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("unexpected output across split writes: got %x want %x", out.Bytes(), want)
	}
}

func TestStreamWriteAppliesCP437WhenLegacyOutputEnabled(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewStream(server)
	s.SetLegacyOutputEncoding(true)

	go func() {
		n, err := s.Write([]byte("═"))
		if err != nil {
			t.Errorf("Write: %v", err)
		}
		if n != len("═") {
			t.Errorf("Write returned n=%d, want %d (original byte count)", n, len("═"))
		}
	}()

	buf := make([]byte, 1)
	if _, err := client.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if buf[0] != 0xCD {
		t.Fatalf("got byte %x, want 0xCD", buf[0])
	}
}
