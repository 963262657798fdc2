package menu

import "fmt"

// MainScreen is the C7 entry menu. It has no sub-state of its own.
type MainScreen struct{}

// NewMainScreen constructs the main menu screen.
func NewMainScreen() *MainScreen { return &MainScreen{} }

// Render builds the main menu view per §4.7: options 1-4 (Bulletins, Users,
// Messages, Files — Bulletins and Files may be disabled by config), L/O/Q, and
// the logged-in user's unread-message count.
func (m *MainScreen) Render(v Viewer) MenuRender {
	items := []MenuItem{
		Info(fmt.Sprintf("Welcome, %s", v.DisplayUsername())),
		Sep(),
	}

	if v.BulletinsEnabled() {
		items = append(items, Option("1", "Bulletins"))
	} else {
		items = append(items, DisabledOption("1", "Bulletins (disabled)"))
	}
	items = append(items, Option("2", "Users"))
	items = append(items, Option("3", "Messages"))
	if v.FilesEnabled() {
		items = append(items, Option("4", "Files"))
	} else {
		items = append(items, DisabledOption("4", "Files (disabled)"))
	}
	items = append(items, Sep())

	if v.IsLoggedIn() {
		stats := v.MessageStats()
		if stats.UnreadCount > 0 {
			items = append(items, Info(fmt.Sprintf("You have %d unread message(s)", stats.UnreadCount)))
		}
		items = append(items, Option("O", "Logoff"))
	} else {
		items = append(items, Option("L", "Login/Register"))
	}
	items = append(items, Option("Q", "Quit"))

	return MenuRender{
		Title:  "Main Menu",
		Items:  items,
		Prompt: "Command",
	}
}

// HandleInput dispatches a single command character.
func (m *MainScreen) HandleInput(v Viewer, input string) MenuAction {
	switch normalizeCommand(input) {
	case "1":
		if !v.BulletinsEnabled() {
			return ShowMessage("Bulletins are disabled on this system.")
		}
		return GoTo(Bulletins)
	case "2":
		return GoTo(Users)
	case "3":
		return GoTo(Messages)
	case "4":
		if !v.FilesEnabled() {
			return ShowMessage("Files are disabled on this system.")
		}
		if !v.IsLoggedIn() {
			return ShowMessage("You must be logged in to run a door program.")
		}
		return MenuAction{Kind: ActionFilesMenu}
	case "L":
		if v.IsLoggedIn() {
			return ShowMessage("You are already logged in.")
		}
		return MenuAction{Kind: ActionLogin}
	case "O":
		if !v.IsLoggedIn() {
			return ShowMessage("You are not logged in.")
		}
		return MenuAction{Kind: ActionLogout}
	case "Q":
		return MenuAction{Kind: ActionQuit}
	default:
		return ShowMessage("Unknown command.")
	}
}
