// Package session implements C8: the per-connection session controller
// that drives login, the main menu loop, and action dispatch, composing
// the C4 telnet stream with the C6 services and C7 menu screens.
//
// Grounded on the teacher's SessionHandler/BbsSession phased-lifecycle
// shape (initialize → authenticate → main loop), rewritten end to end: the
// teacher's version is SSH/PTY-specific and tied to a box-drawing menu
// interpreter neither of which this module carries.
package session

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/sdsalyer/moonbase/internal/config"
	"github.com/sdsalyer/moonbase/internal/doors"
	"github.com/sdsalyer/moonbase/internal/menu"
	"github.com/sdsalyer/moonbase/internal/service"
	"github.com/sdsalyer/moonbase/internal/store"
	"github.com/sdsalyer/moonbase/internal/telnet"
)

// Session is one connected client's controller state (§3 "Session state").
// ID is a UUID rather than a sequential node number: it has no ordering
// meaning, only identity, so logging and the Registry key on it without
// implying anything about connection order.
type Session struct {
	ID           uuid.UUID
	Stream       *telnet.Stream
	RemoteAddr   net.Addr
	StartTime    time.Time
	LastActivity time.Time

	cfg       config.ServerConfig
	users     *service.Users
	bulletins *service.Bulletins
	messages  *service.Messages
	registry  *Registry
	doors     *doors.Launcher // nil when no doors are configured

	user          *store.User
	loginAttempts int

	effectiveWidth int
	caps           telnet.TerminalCapabilities

	currentMenu     menu.Menu
	mainScreen      *menu.MainScreen
	bulletinsScreen *menu.BulletinsScreen
	usersScreen     *menu.UsersScreen
	messagesScreen  *menu.MessagesScreen
}

// Deps bundles the shared collaborators every session needs; one Deps is
// constructed at startup and handed to every accepted connection.
type Deps struct {
	Config    config.ServerConfig
	Users     *service.Users
	Bulletins *service.Bulletins
	Messages  *service.Messages
	Registry  *Registry
	Doors     *doors.Launcher
}

// New constructs a session controller for an accepted, telnet-negotiated
// stream.
func New(id uuid.UUID, stream *telnet.Stream, remoteAddr net.Addr, deps Deps) *Session {
	return &Session{
		ID:           id,
		Stream:       stream,
		RemoteAddr:   remoteAddr,
		StartTime:    time.Now(),
		LastActivity: time.Now(),

		cfg:       deps.Config,
		users:     deps.Users,
		bulletins: deps.Bulletins,
		messages:  deps.Messages,
		registry:  deps.Registry,
		doors:     deps.Doors,

		effectiveWidth: deps.Config.UI.WidthValue,

		currentMenu:     menu.Main,
		mainScreen:      menu.NewMainScreen(),
		bulletinsScreen: menu.NewBulletinsScreen(),
		usersScreen:     menu.NewUsersScreen(),
		messagesScreen:  menu.NewMessagesScreen(),
	}
}

// menu.Viewer implementation — the read-only view screens render against.

// DisplayUsername implements the §4.8 display-username rule.
func (s *Session) DisplayUsername() string {
	if s.user != nil {
		return s.user.Username
	}
	return "Anonymous"
}

func (s *Session) IsLoggedIn() bool { return s.user != nil }

func (s *Session) CurrentUsername() (string, bool) {
	if s.user == nil {
		return "", false
	}
	return s.user.Username, true
}

func (s *Session) BulletinStats() store.BulletinStats {
	var current *string
	if s.user != nil {
		name := s.user.Username
		current = &name
	}
	return s.bulletins.Stats(current)
}

func (s *Session) UserStats() store.UserStats { return s.users.Stats() }

func (s *Session) MessageStats() store.MessageStats {
	if s.user == nil {
		return store.MessageStats{}
	}
	return s.messages.Stats(s.user.Username)
}

func (s *Session) BulletinsEnabled() bool { return s.cfg.Features.BulletinsEnabled }
func (s *Session) FilesEnabled() bool     { return s.cfg.Features.FileUploadsEnabled }

var _ menu.Viewer = (*Session)(nil)

// Touch records activity, letting a scheduler-driven idle sweep (see
// internal/scheduler) measure idleness independently of this session's own
// read-deadline enforcement in the main loop.
func (s *Session) Touch() { s.LastActivity = time.Now() }

// IdleFor reports how long it has been since the session last did anything.
func (s *Session) IdleFor() time.Duration { return time.Since(s.LastActivity) }

// ForceDisconnect closes the underlying stream, unblocking a pending Read in
// the session's goroutine so Run returns and cleans up.
func (s *Session) ForceDisconnect() error { return s.Stream.Close() }
