package telnet

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ansiScanState tracks progress through an ANSI escape sequence so a CP437
// transcode pass can skip over it untouched.
type ansiScanState int

const (
	ansiScanGround ansiScanState = iota
	ansiScanEscape
	ansiScanCSI
)

// cp437Encoder selectively transcodes UTF-8 text to CP437 while passing ANSI
// escape sequences through unmodified, so SGR color codes and cursor moves
// are never mangled by the single-byte encoding. State persists across
// Encode calls since an escape sequence can arrive split across writes.
//
// Grounded on the teacher's internal/terminalio/cp437_writer.go
// (SelectiveCP437Writer), adapted from an io.Writer wrapper into a pure
// byte-transform so it can sit behind Stream.Write's existing IAC-escaping
// pass instead of owning the underlying net.Conn itself.
type cp437Encoder struct {
	enc   transform.Transformer
	state ansiScanState
}

func newCP437Encoder() *cp437Encoder {
	return &cp437Encoder{enc: charmap.CodePage437.NewEncoder()}
}

// Encode returns p with its printable text runs transcoded to CP437 and its
// ANSI escape sequences left untouched.
func (c *cp437Encoder) Encode(p []byte) []byte {
	var out bytes.Buffer
	var text bytes.Buffer

	flushText := func() {
		if text.Len() == 0 {
			return
		}
		encoded, _, _ := transform.Bytes(c.enc, text.Bytes())
		out.Write(encoded)
		text.Reset()
	}

	for _, b := range p {
		switch c.state {
		case ansiScanGround:
			if b == 0x1b {
				flushText()
				out.WriteByte(b)
				c.state = ansiScanEscape
			} else {
				text.WriteByte(b)
			}
		case ansiScanEscape:
			out.WriteByte(b)
			if b == '[' {
				c.state = ansiScanCSI
			} else {
				c.state = ansiScanGround
			}
		case ansiScanCSI:
			out.WriteByte(b)
			if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') {
				c.state = ansiScanGround
			}
		}
	}
	flushText()
	return out.Bytes()
}
