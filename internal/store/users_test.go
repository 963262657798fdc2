package store

import (
	"testing"

	"github.com/sdsalyer/moonbase/internal/bbserr"
)

func testLimits() Limits {
	return Limits{MaxUsernameLength: 20, MaxMessageLength: 4096}
}

func TestUsersRegisterAndAuthenticate(t *testing.T) {
	u, err := NewUsers(t.TempDir())
	if err != nil {
		t.Fatalf("NewUsers: %v", err)
	}

	usr, err := u.Register(RegisterRequest{Username: "alice", Password: "hunter2"}, testLimits())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if usr.PasswordHash == "hunter2" {
		t.Fatal("password was stored in plaintext")
	}
	if !usr.IsActive {
		t.Error("new user should be active")
	}

	authed, err := u.Authenticate("alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.LoginCount != 1 {
		t.Errorf("expected LoginCount 1, got %d", authed.LoginCount)
	}

	if _, err := u.Authenticate("alice", "wrongpass"); !bbserr.IsKind(err, bbserr.KindAuthenticationFailed) {
		t.Errorf("expected authentication failure, got %v", err)
	}
}

func TestUsersRegisterRejectsInvalidUsername(t *testing.T) {
	u, _ := NewUsers(t.TempDir())

	cases := []string{"", "has space", "has-dash", "way-too-long-of-a-username-here"}
	for _, name := range cases {
		if _, err := u.Register(RegisterRequest{Username: name, Password: "hunter2"}, testLimits()); err == nil {
			t.Errorf("expected error for username %q", name)
		}
	}
}

func TestUsersRegisterRejectsShortPassword(t *testing.T) {
	u, _ := NewUsers(t.TempDir())
	if _, err := u.Register(RegisterRequest{Username: "bob", Password: "abc"}, testLimits()); err == nil {
		t.Error("expected error for short password")
	}
}

func TestUsersRegisterRejectsEmailWithoutAt(t *testing.T) {
	u, _ := NewUsers(t.TempDir())
	if _, err := u.Register(RegisterRequest{Username: "eve", Password: "hunter2", Email: "not-an-email"}, testLimits()); err == nil {
		t.Error("expected error for email without '@'")
	}
}

func TestUsersRegisterAllowsEmptyEmail(t *testing.T) {
	u, _ := NewUsers(t.TempDir())
	if _, err := u.Register(RegisterRequest{Username: "frank", Password: "hunter2"}, testLimits()); err != nil {
		t.Errorf("empty email should be allowed: %v", err)
	}
}

func TestUsersRegisterRejectsDuplicate(t *testing.T) {
	u, _ := NewUsers(t.TempDir())
	if _, err := u.Register(RegisterRequest{Username: "carol", Password: "hunter2"}, testLimits()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := u.Register(RegisterRequest{Username: "carol", Password: "otherpass"}, testLimits()); err == nil {
		t.Error("expected duplicate username to be rejected")
	}
}

func TestUsersPersistAcrossReload(t *testing.T) {
	dir := t.TempDir()
	u1, _ := NewUsers(dir)
	if _, err := u1.Register(RegisterRequest{Username: "dave", Password: "hunter2"}, testLimits()); err != nil {
		t.Fatalf("register: %v", err)
	}

	u2, err := NewUsers(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !u2.Exists("dave") {
		t.Error("expected dave to survive reload")
	}
}

func TestUsersOnlineTracking(t *testing.T) {
	u, _ := NewUsers(t.TempDir())
	u.MarkOnline("erin")
	stats := u.Stats()
	if len(stats.OnlineUsers) != 1 || stats.OnlineUsers[0] != "erin" {
		t.Fatalf("expected erin online, got %v", stats.OnlineUsers)
	}
	u.MarkOffline("erin")
	stats = u.Stats()
	if len(stats.OnlineUsers) != 0 {
		t.Fatalf("expected nobody online, got %v", stats.OnlineUsers)
	}
}
