package menu

import (
	"fmt"
	"sort"

	"github.com/sdsalyer/moonbase/internal/store"
)

// UsersSortMode toggles the Users listing's sort key.
type UsersSortMode int

const (
	SortByUsername UsersSortMode = iota
	SortByLastLogin
)

// UsersScreen shows account totals, who's online, and recent logins.
type UsersScreen struct {
	sort UsersSortMode
}

// NewUsersScreen constructs the Users menu screen.
func NewUsersScreen() *UsersScreen { return &UsersScreen{} }

// Reset restores default sort order.
func (u *UsersScreen) Reset() { u.sort = SortByUsername }

// Render builds the Users menu view per §4.7.
func (u *UsersScreen) Render(v Viewer) MenuRender {
	stats := v.UserStats()

	items := []MenuItem{
		Info(fmt.Sprintf("%d registered user(s), %d online", stats.TotalUsers, len(stats.OnlineUsers))),
		Sep(),
	}

	recent := append([]store.User(nil), stats.RecentLogins...)
	switch u.sort {
	case SortByUsername:
		sort.Slice(recent, func(i, j int) bool { return recent[i].Username < recent[j].Username })
	case SortByLastLogin:
		sort.Slice(recent, func(i, j int) bool { return recent[i].LastLogin.After(recent[j].LastLogin) })
	}
	for _, usr := range recent {
		items = append(items, Info(fmt.Sprintf("%s — last login %s", usr.Username, usr.LastLogin.Format("2006-01-02 15:04"))))
	}

	items = append(items,
		Sep(),
		Option("L", "List all"),
		Option("W", "Who's online"),
		Option("N", "Toggle sort (username/last-login)"),
	)
	if v.IsLoggedIn() {
		items = append(items, Option("P", "My profile"))
	}
	items = append(items, Option("B", "Back to main menu"))

	return MenuRender{Title: "Users", Items: items, Prompt: "Command"}
}

// HandleInput dispatches a single command character.
func (u *UsersScreen) HandleInput(v Viewer, input string) MenuAction {
	switch normalizeCommand(input) {
	case "L":
		return MenuAction{Kind: ActionNone}
	case "W":
		stats := v.UserStats()
		if len(stats.OnlineUsers) == 0 {
			return ShowMessage("Nobody else is online right now.")
		}
		return ShowMessage(fmt.Sprintf("Online: %v", stats.OnlineUsers))
	case "N", "T":
		if u.sort == SortByUsername {
			u.sort = SortByLastLogin
		} else {
			u.sort = SortByUsername
		}
		return MenuAction{Kind: ActionUserToggleSort}
	case "P":
		if !v.IsLoggedIn() {
			return ShowMessage("You must be logged in to view your profile.")
		}
		name, _ := v.CurrentUsername()
		return ShowMessage(fmt.Sprintf("Logged in as %s.", name))
	case "B":
		return GoTo(Main)
	default:
		return ShowMessage("Unknown command.")
	}
}
