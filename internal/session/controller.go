package session

import (
	"net"
	"time"

	"github.com/sdsalyer/moonbase/internal/bbserr"
	"github.com/sdsalyer/moonbase/internal/menu"
	"github.com/sdsalyer/moonbase/internal/store"
)

// negotiationGrace is how long Run waits after requesting NAWS/TERMINAL-TYPE
// before sampling whatever the client reported, per §4.8 step 2.
const negotiationGrace = 100 * time.Millisecond

// Run drives the session end to end: timeout setup, capability negotiation,
// the forced-login gate, and the render/input/dispatch main loop, per §4.8.
// It returns nil only on a clean client-initiated quit; any other return is
// an error the caller (telnetserver's per-connection goroutine) logs.
func (s *Session) Run() error {
	defer func() { s.users.MarkOffline(s.usernameOrEmpty()) }()

	if err := s.Stream.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.Timeouts.ConnectionSeconds) * time.Second)); err != nil {
		return bbserr.FromIO(err)
	}

	s.negotiateCapabilities()

	if err := s.sendWelcome(); err != nil {
		return err
	}

	if !s.cfg.Features.AllowAnonymous && s.user == nil {
		if err := s.forceLogin(); err != nil {
			return err
		}
	}

	return s.mainLoop()
}

func (s *Session) usernameOrEmpty() string {
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// negotiateCapabilities samples whatever NAWS size and terminal-type the
// client volunteered during the grace period and resolves the session's
// effective width/color/ANSI settings from the three-way config override.
func (s *Session) negotiateCapabilities() {
	time.Sleep(negotiationGrace)

	if size, ok := s.Stream.NAWS().Size(); ok && size.IsValid() {
		if s.cfg.UI.WidthMode == "auto" {
			s.effectiveWidth = int(size.Width)
		}
	}
	if s.effectiveWidth <= 0 {
		s.effectiveWidth = s.cfg.UI.WidthValue
	}
	// Clamp to a sane minimum; a client reporting a degenerate width should
	// not collapse the box-drawn layout entirely.
	if s.effectiveWidth < 40 {
		s.effectiveWidth = 40
	}

	s.caps = s.Stream.TerminalType().Capabilities()

	// A "legacy" box style means the sysop expects DOS-era terminal
	// emulators on the other end; transcode our UTF-8 box-drawing output to
	// CP437 so those clients render it instead of seeing mojibake.
	s.Stream.SetLegacyOutputEncoding(s.cfg.UI.BoxStyle == "legacy")
}

func (s *Session) sendWelcome() error {
	msg := "\n" + s.cfg.BBS.Name
	if s.cfg.BBS.Tagline != "" {
		msg += " — " + s.cfg.BBS.Tagline
	}
	msg += "\n"
	return s.write(msg)
}

// forceLogin runs the §4.8 "anonymous access disabled" gate: up to three
// login/register attempts within login_timeout, after which the session
// ends with AuthenticationFailed.
func (s *Session) forceLogin() error {
	deadline := time.Now().Add(time.Duration(s.cfg.Timeouts.LoginSeconds) * time.Second)
	if err := s.Stream.SetReadDeadline(deadline); err != nil {
		return bbserr.FromIO(err)
	}

	for s.loginAttempts < 3 {
		if err := s.write("\nThis system requires a login. (L)ogin, (R)egister, or (Q)uit: "); err != nil {
			return err
		}
		choice, err := s.readLine()
		if err != nil {
			return err
		}
		switch normalizeChoice(choice) {
		case "Q":
			return bbserr.ErrClientDisconnected
		case "R":
			if err := s.registerFlow(); err != nil {
				if bbserr.IsKind(err, bbserr.KindInvalidInput) {
					if showErr := s.showMessage(err.Error()); showErr != nil {
						return showErr
					}
					s.loginAttempts++
					continue
				}
				return err
			}
		default:
			if err := s.loginFlow(); err != nil {
				if bbserr.IsKind(err, bbserr.KindAuthenticationFailed) || bbserr.IsKind(err, bbserr.KindInvalidInput) {
					s.loginAttempts++
					if showErr := s.showMessage("Login failed."); showErr != nil {
						return showErr
					}
					continue
				}
				return err
			}
		}
		if s.user != nil {
			return s.Stream.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.Timeouts.ConnectionSeconds) * time.Second))
		}
	}
	return bbserr.AuthFailed("too many failed login attempts")
}

func normalizeChoice(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := s[0]
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	return string(b)
}

// mainLoop implements §4.8 step 4: refresh stats (implicit — screens call
// back into the services on every Render), render the current screen, write
// it, read a line, hand it to the screen, and dispatch the resulting
// menu.MenuAction, until the client quits or the connection ends.
func (s *Session) mainLoop() error {
	for {
		if err := s.Stream.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.Timeouts.ConnectionSeconds) * time.Second)); err != nil {
			return bbserr.FromIO(err)
		}

		render := s.renderCurrent()
		if err := s.clearScreenIfSupported(); err != nil {
			return classifyLoopError(err)
		}
		if err := s.write(s.renderMenu(render)); err != nil {
			return classifyLoopError(err)
		}

		input, err := s.readLine()
		if err != nil {
			return classifyLoopError(err)
		}
		s.Touch()

		action := s.handleCurrent(input)
		quit, err := s.dispatch(action)
		if err != nil {
			if bbserr.IsKind(err, bbserr.KindInvalidInput) || bbserr.IsKind(err, bbserr.KindAuthenticationFailed) {
				if showErr := s.showMessage(err.Error()); showErr != nil {
					return classifyLoopError(showErr)
				}
				continue
			}
			return classifyLoopError(err)
		}
		if quit {
			return nil
		}
	}
}

// classifyLoopError turns a read-deadline expiry into the idle-timeout
// disconnect §4.8 calls for; every other I/O failure propagates unchanged.
func classifyLoopError(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*bbserr.Error); ok {
		if ne, ok := e.Cause.(net.Error); ok && ne.Timeout() {
			return bbserr.ErrClientDisconnected
		}
	}
	return err
}

func (s *Session) renderCurrent() menu.MenuRender {
	switch s.currentMenu {
	case menu.Bulletins:
		return s.bulletinsScreen.Render(s)
	case menu.Users:
		return s.usersScreen.Render(s)
	case menu.Messages:
		return s.messagesScreen.Render(s)
	default:
		return s.mainScreen.Render(s)
	}
}

func (s *Session) handleCurrent(input string) menu.MenuAction {
	switch s.currentMenu {
	case menu.Bulletins:
		return s.bulletinsScreen.HandleInput(s, input)
	case menu.Users:
		return s.usersScreen.HandleInput(s, input)
	case menu.Messages:
		return s.messagesScreen.HandleInput(s, input)
	default:
		return s.mainScreen.HandleInput(s, input)
	}
}

// filterUnread applies the Bulletins screen's unread-only toggle to
// a freshly loaded listing.
func filterUnread(items []store.Bulletin, username string, unreadOnly bool) []store.Bulletin {
	if !unreadOnly {
		return items
	}
	out := make([]store.Bulletin, 0, len(items))
	for _, it := range items {
		if !it.ReadBy[username] {
			out = append(out, it)
		}
	}
	return out
}
