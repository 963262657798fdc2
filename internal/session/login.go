package session

import (
	"github.com/sdsalyer/moonbase/internal/bbserr"
	"github.com/sdsalyer/moonbase/internal/store"
	"github.com/sdsalyer/moonbase/internal/telnet"
)

// loginFlow prompts for username and password, suppressing the client's
// local echo around the password read per the request_echo_off/request_echo_on
// contract in §4.4, then authenticates against the Users service.
func (s *Session) loginFlow() error {
	if err := s.write("Username: "); err != nil {
		return err
	}
	username, err := s.readLine()
	if err != nil {
		return err
	}
	if username == "" {
		return bbserr.InvalidInput("username must not be empty")
	}

	password, err := s.readPassword()
	if err != nil {
		return err
	}

	user, err := s.users.Authenticate(username, password)
	if err != nil {
		return err
	}
	s.user = &user
	s.users.MarkOnline(user.Username)
	return nil
}

// registerFlow prompts for a new username, password, and optional email,
// then registers the account and logs the new user in.
func (s *Session) registerFlow() error {
	if err := s.write("Choose a username: "); err != nil {
		return err
	}
	username, err := s.readLine()
	if err != nil {
		return err
	}

	password, err := s.readPassword()
	if err != nil {
		return err
	}

	if err := s.write("Email (optional): "); err != nil {
		return err
	}
	email, err := s.readLine()
	if err != nil {
		return err
	}

	user, err := s.users.Register(store.RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
	})
	if err != nil {
		return err
	}
	s.user = &user
	s.users.MarkOnline(user.Username)
	return s.showMessage("Account created. You are now logged in.")
}

// readPassword reads one line with the client's local echo suppressed (the
// server offers WILL ECHO and does not echo), restoring local echo afterward
// regardless of outcome.
func (s *Session) readPassword() (string, error) {
	if err := s.write("Password: "); err != nil {
		return "", err
	}
	if err := s.Stream.RequestLocal(telnet.OptEcho, true); err != nil {
		return "", bbserr.FromIO(err)
	}
	password, readErr := s.readLine()
	if err := s.Stream.RequestLocal(telnet.OptEcho, false); err != nil {
		return "", bbserr.FromIO(err)
	}
	if readErr != nil {
		return "", readErr
	}
	return password, s.write("\n")
}

// logout clears the session's authenticated user and marks them offline.
func (s *Session) logout() {
	if s.user == nil {
		return
	}
	s.users.MarkOffline(s.user.Username)
	s.user = nil
}
