package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sdsalyer/moonbase/internal/bbserr"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Users is the C5 repository over the §3 User entity: a mutex-guarded cache
// backed by a single JSON file, rewritten whole on every mutation so the
// cache and the file can never observe each other half-written. Grounded on
// the teacher's manager.go persistence idiom and on
// original_source/src/user_repository.rs for the entity shape and
// validation contract.
type Users struct {
	mu     sync.RWMutex
	path   string
	byName map[string]*User
	online map[string]struct{}
}

// NewUsers opens (or creates) the user store backed by users.json in dataDir.
func NewUsers(dataDir string) (*Users, error) {
	u := &Users{
		path:   filepath.Join(dataDir, "users.json"),
		byName: make(map[string]*User),
		online: make(map[string]struct{}),
	}
	if err := u.load(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Users) load() error {
	data, err := os.ReadFile(u.path)
	if err != nil {
		if os.IsNotExist(err) {
			return u.persistLocked()
		}
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("read users file %s", u.path), err)
	}
	if len(data) == 0 {
		return nil
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return bbserr.New(bbserr.KindIO, "parse users.json", err)
	}
	for i := range users {
		u.byName[users[i].Username] = &users[i]
	}
	return nil
}

// persistLocked rewrites users.json in full. Caller must hold u.mu.
func (u *Users) persistLocked() error {
	all := make([]User, 0, len(u.byName))
	for _, usr := range u.byName {
		all = append(all, *usr)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return bbserr.New(bbserr.KindIO, "marshal users", err)
	}
	if err := os.WriteFile(u.path, data, 0600); err != nil {
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("write users file %s", u.path), err)
	}
	return nil
}

// Load returns a copy of the named user, if present.
func (u *Users) Load(username string) (User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.byName[username]
	if !ok {
		return User{}, false
	}
	return *usr, true
}

// Exists reports whether username is registered.
func (u *Users) Exists(username string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.byName[username]
	return ok
}

func validateUsername(username string, limits Limits) error {
	if username == "" {
		return bbserr.InvalidInput("username must not be empty")
	}
	if len(username) > limits.MaxUsernameLength {
		return bbserr.InvalidInput(fmt.Sprintf("username exceeds %d characters", limits.MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return bbserr.InvalidInput("username may only contain letters, digits, and underscores")
	}
	return nil
}

// validateEmail enforces §3's "must contain @ if non-empty" rule — email is
// optional, so only a non-empty value is checked.
func validateEmail(email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return bbserr.InvalidInput("email must contain '@'")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return bbserr.InvalidInput("password must not be empty")
	}
	if len(password) < 4 {
		return bbserr.InvalidInput("password must be at least 4 characters")
	}
	return nil
}

// Register validates and creates a new account, hashing the password with
// bcrypt (§9). It rejects duplicate usernames.
func (u *Users) Register(req RegisterRequest, limits Limits) (User, error) {
	if err := validateUsername(req.Username, limits); err != nil {
		return User{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return User{}, err
	}
	if err := validateEmail(req.Email); err != nil {
		return User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.byName[req.Username]; exists {
		return User{}, bbserr.InvalidInput(fmt.Sprintf("username %q is already taken", req.Username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, bbserr.New(bbserr.KindIO, "hash password", err)
	}

	usr := User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    nowUTC(),
		IsActive:     true,
	}
	u.byName[usr.Username] = &usr
	if err := u.persistLocked(); err != nil {
		delete(u.byName, usr.Username)
		return User{}, err
	}
	return usr, nil
}

// Authenticate verifies username/password and, on success, bumps LoginCount
// and LastLogin. Deactivated accounts fail with AuthenticationFailed.
func (u *Users) Authenticate(username, password string) (User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	usr, ok := u.byName[username]
	if !ok {
		return User{}, bbserr.AuthFailed("unknown username or password")
	}
	if !usr.IsActive {
		return User{}, bbserr.AuthFailed("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return User{}, bbserr.AuthFailed("unknown username or password")
	}

	usr.LastLogin = nowUTC()
	usr.LoginCount++
	if err := u.persistLocked(); err != nil {
		return User{}, err
	}
	return *usr, nil
}

// MarkOnline/MarkOffline track the process-wide set of authenticated
// sessions for the "who's online" upgrade (SPEC_FULL §12).
func (u *Users) MarkOnline(username string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.online[username] = struct{}{}
}

func (u *Users) MarkOffline(username string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.online, username)
}

// Stats reports totals, who's online, and the most recently logged-in users.
func (u *Users) Stats() UserStats {
	u.mu.RLock()
	defer u.mu.RUnlock()

	online := make([]string, 0, len(u.online))
	for name := range u.online {
		online = append(online, name)
	}
	sort.Strings(online)

	recent := make([]User, 0, len(u.byName))
	for _, usr := range u.byName {
		if !usr.LastLogin.IsZero() {
			recent = append(recent, *usr)
		}
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].LastLogin.After(recent[j].LastLogin) })
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return UserStats{
		TotalUsers:   len(u.byName),
		OnlineUsers:  online,
		RecentLogins: recent,
	}
}

// All returns every registered user, sorted by username. Used by the sysop
// console (cmd/sysopctl), which needs the full roster rather than the
// top-10 recent-logins view Stats provides.
func (u *Users) All() []User {
	u.mu.RLock()
	defer u.mu.RUnlock()

	all := make([]User, 0, len(u.byName))
	for _, usr := range u.byName {
		all = append(all, *usr)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all
}

func nowUTC() time.Time { return time.Now().UTC() }
