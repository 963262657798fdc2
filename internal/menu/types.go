// Package menu implements C7: pure render/handle_input pairs for each BBS
// screen. Screens never touch the network or the repositories directly —
// they describe what to show and what the input means; internal/session
// (C8) is the only thing that calls into internal/service.
//
// Grounded on spec.md §4.7's render(session) -> MenuRender /
// handle_input(session, input) -> MenuAction contract. There is no teacher
// analogue (vision3's menu engine is a data-driven box-drawing interpreter
// tied to .MNU asset files, an entirely different design); this package is
// new code following the teacher's general preference for plain owned
// structs over interface-heavy polymorphism.
package menu

import "github.com/sdsalyer/moonbase/internal/store"

// Menu identifies a top-level screen.
type Menu int

const (
	Main Menu = iota
	Bulletins
	Users
	Messages
)

// ItemKind distinguishes the three shapes a MenuItem can take.
type ItemKind int

const (
	ItemOption ItemKind = iota
	ItemSeparator
	ItemInfo
)

// MenuItem is one line of a rendered menu.
type MenuItem struct {
	Kind        ItemKind
	Key         string
	Description string
	Enabled     bool
	Text        string // used by ItemInfo
}

// Option builds an enabled ItemOption.
func Option(key, description string) MenuItem {
	return MenuItem{Kind: ItemOption, Key: key, Description: description, Enabled: true}
}

// DisabledOption builds a greyed-out ItemOption (e.g. a feature turned off
// in configuration).
func DisabledOption(key, description string) MenuItem {
	return MenuItem{Kind: ItemOption, Key: key, Description: description, Enabled: false}
}

// Info builds an ItemInfo line.
func Info(text string) MenuItem {
	return MenuItem{Kind: ItemInfo, Text: text}
}

// Sep builds an ItemSeparator line.
func Sep() MenuItem { return MenuItem{Kind: ItemSeparator} }

// MenuRender is what a screen wants displayed this turn.
type MenuRender struct {
	Title  string
	Items  []MenuItem
	Prompt string
}

// ActionKind enumerates the controller-level transitions a screen can ask
// the session controller to perform.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionGoTo
	ActionLogin
	ActionLogout
	ActionQuit
	ActionShowMessage

	ActionBulletinPost         // Title, Content set
	ActionBulletinMarkRead     // BulletinID set
	ActionBulletinToggleFilter
	ActionBulletinRefreshListing

	ActionUserToggleSort

	ActionMessageComposeSubject // Recipient set; controller prompts for subject synchronously
	ActionMessageComposeSend    // Recipient, Subject, Content set
	ActionMessageMarkRead       // MessageID set
	ActionMessageDelete         // MessageID set
	ActionMessageLoadInbox
	ActionMessageLoadSent

	ActionFilesMenu
)

// MenuAction is the single result type every handle_input returns. Plain
// struct with optional fields, per §9's guidance to prefer explicit
// controller-driven mutation over interior-mutable polymorphism.
type MenuAction struct {
	Kind ActionKind

	Target Menu // ActionGoTo
	Text   string // ActionShowMessage

	BulletinTitle   string // ActionBulletinPost
	BulletinContent string // ActionBulletinPost
	BulletinID      uint32 // ActionBulletinMarkRead

	Recipient string // ActionMessageComposeSubject / ActionMessageComposeSend
	Subject   string // ActionMessageComposeSend
	Content   string // ActionMessageComposeSend
	MessageID uint32 // ActionMessageMarkRead / ActionMessageDelete
}

// GoTo is a convenience constructor for the common ActionGoTo case.
func GoTo(m Menu) MenuAction { return MenuAction{Kind: ActionGoTo, Target: m} }

// ShowMessage is a convenience constructor for ActionShowMessage.
func ShowMessage(text string) MenuAction { return MenuAction{Kind: ActionShowMessage, Text: text} }

// Viewer is the read-only session context every screen renders against.
// internal/session implements this; keeping it as an interface here (rather
// than importing the session package, which would create an import cycle)
// is the one place this package reaches outside its own types.
type Viewer interface {
	DisplayUsername() string
	IsLoggedIn() bool
	CurrentUsername() (string, bool)
	BulletinStats() store.BulletinStats
	UserStats() store.UserStats
	MessageStats() store.MessageStats
	BulletinsEnabled() bool
	FilesEnabled() bool
}

