package session

import (
	"fmt"
	"strings"

	"github.com/sdsalyer/moonbase/internal/menu"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	clearScreen = "\x1b[2J\x1b[H"
)

// useColor reports whether this session should emit ANSI color codes, per
// the three-way override in §4.8 step 2: Auto uses capability detection,
// Enabled/Disabled override it outright.
func (s *Session) useColor() bool {
	switch s.cfg.UI.ColorSupport {
	case "true":
		return true
	case "false":
		return false
	default:
		return s.caps.ANSI && s.cfg.UI.UseColors
	}
}

func (s *Session) useANSI() bool {
	switch s.cfg.UI.ANSISupport {
	case "true":
		return true
	case "false":
		return false
	default:
		return s.caps.ANSI
	}
}

// borderRune is '=' for the default "ascii" box style, or the Unicode
// double-line drawing rune for "legacy" — which the stream's CP437 encoder
// (enabled alongside "legacy", see negotiateCapabilities) transcodes to the
// matching single-byte glyph for DOS-era terminal emulators.
func (s *Session) borderRune() rune {
	if s.cfg.UI.BoxStyle == "legacy" {
		return '═'
	}
	return '='
}

func (s *Session) separatorRune() rune {
	if s.cfg.UI.BoxStyle == "legacy" {
		return '─'
	}
	return '-'
}

// renderMenu turns a menu.MenuRender into the text actually written to the
// client: a bordered box sized to the session's effective width (§4.8
// step 2), using the configured box style.
func (s *Session) renderMenu(r menu.MenuRender) string {
	width := s.effectiveWidth
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	border := strings.Repeat(string(s.borderRune()), width)
	b.WriteString(border)
	b.WriteByte('\n')
	if r.Title != "" {
		b.WriteString(centerText(r.Title, width))
		b.WriteByte('\n')
		b.WriteString(border)
		b.WriteByte('\n')
	}

	for _, item := range r.Items {
		switch item.Kind {
		case menu.ItemSeparator:
			b.WriteString(strings.Repeat(string(s.separatorRune()), width))
		case menu.ItemInfo:
			b.WriteString(item.Text)
		case menu.ItemOption:
			if item.Enabled {
				b.WriteString(fmt.Sprintf("[%s] %s", item.Key, item.Description))
			} else {
				b.WriteString(fmt.Sprintf("(%s) %s", item.Key, item.Description))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(border)
	b.WriteByte('\n')
	if r.Prompt != "" {
		b.WriteString(r.Prompt)
		b.WriteString(": ")
	}
	return b.String()
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	pad := (width - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

// showMessage renders a modal message per §7: the text in red (when color
// is enabled) followed by "Press Enter to continue".
func (s *Session) showMessage(text string) error {
	var msg string
	if s.useColor() {
		msg = ansiRed + text + ansiReset
	} else {
		msg = text
	}
	if err := s.write("\n" + msg + "\nPress Enter to continue..."); err != nil {
		return err
	}
	_, err := s.readLine()
	return err
}

func (s *Session) clearScreenIfSupported() error {
	if !s.useANSI() {
		return s.write("\n")
	}
	return s.write(clearScreen)
}
