package session

import "github.com/sdsalyer/moonbase/internal/bbserr"

// readLine reads application-data bytes from the stream until a newline,
// trimming a trailing carriage return and honoring destructive backspace
// (0x08, 0x7F) the way a raw-mode client sends it. Telnet command
// processing on the underlying bytes happens transparently inside
// Stream.Read, per §4.8 step 4(d).
func (s *Session) readLine() (string, error) {
	var line []rune
	buf := make([]byte, 1)
	for {
		n, err := s.Stream.Read(buf)
		if err != nil {
			return "", bbserr.FromIO(err)
		}
		if n == 0 {
			continue
		}
		b := buf[0]
		switch b {
		case '\n':
			return string(line), nil
		case '\r':
			continue
		case 0x08, 0x7F: // backspace / delete
			if len(line) > 0 {
				line = line[:len(line)-1]
			}
		default:
			line = append(line, rune(b))
		}
	}
}

// write sends s to the client, translating "\n" to "\r\n" so plain Go
// string formatting produces correct telnet line endings.
func (s *Session) write(text string) error {
	out := make([]byte, 0, len(text)+8)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, '\r', '\n')
		} else {
			out = append(out, text[i])
		}
	}
	_, err := s.Stream.Write(out)
	if err != nil {
		return bbserr.FromIO(err)
	}
	return nil
}
