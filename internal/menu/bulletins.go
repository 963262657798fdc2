package menu

import (
	"fmt"
	"strconv"

	"github.com/sdsalyer/moonbase/internal/store"
)

// BulletinSubState is the Bulletins screen's own state machine, per §4.7:
// MainMenu, Listing, Reading, Posting, PostingContent.
type BulletinSubState int

const (
	BulletinMainMenu BulletinSubState = iota
	BulletinListing
	BulletinReading
	BulletinPosting
	BulletinPostingContent
)

// BulletinsScreen holds the Bulletins menu's sub-state across turns.
type BulletinsScreen struct {
	state        BulletinSubState
	listing      []store.Bulletin
	reading      store.Bulletin
	unreadOnly   bool
	pendingTitle string
}

// NewBulletinsScreen constructs the Bulletins menu screen.
func NewBulletinsScreen() *BulletinsScreen { return &BulletinsScreen{} }

// Reset returns the screen to its main-menu sub-state; the session
// controller calls this each time the user navigates to the Bulletins screen.
func (b *BulletinsScreen) Reset() { *b = BulletinsScreen{} }

// SetListing lets the session controller hand the screen a freshly loaded
// listing (it owns the repository call; this screen is render/input only).
func (b *BulletinsScreen) SetListing(items []store.Bulletin) {
	b.listing = items
	b.state = BulletinListing
}

// Render builds the view for whichever sub-state is active.
func (b *BulletinsScreen) Render(v Viewer) MenuRender {
	switch b.state {
	case BulletinListing:
		return b.renderListing()
	case BulletinReading:
		return b.renderReading()
	case BulletinPosting:
		return MenuRender{Title: "Post Bulletin", Prompt: "Title (blank to cancel)"}
	case BulletinPostingContent:
		return MenuRender{Title: "Post Bulletin: " + b.pendingTitle, Prompt: "Content"}
	default:
		return b.renderMain(v)
	}
}

func (b *BulletinsScreen) renderMain(v Viewer) MenuRender {
	stats := v.BulletinStats()
	items := []MenuItem{
		Info(fmt.Sprintf("%d bulletin(s), %d unread", stats.TotalBulletins, stats.UnreadCount)),
		Sep(),
	}
	for i, bul := range stats.Recent {
		if i >= 5 {
			break
		}
		marker := " "
		if bul.IsSticky {
			marker = "*"
		}
		items = append(items, Info(fmt.Sprintf("%s %d. %s — %s", marker, i+1, bul.Title, bul.Author)))
	}
	items = append(items,
		Sep(),
		Option("L", "List bulletins"),
		Option("N", "Next unread"),
		Option("P", "Post a bulletin"),
		Option("U", "Toggle unread-only filter"),
		Option("B", "Back to main menu"),
	)
	return MenuRender{Title: "Bulletins", Items: items, Prompt: "Command, or number to read"}
}

func (b *BulletinsScreen) renderListing() MenuRender {
	items := make([]MenuItem, 0, len(b.listing)+2)
	for i, bul := range b.listing {
		marker := " "
		if bul.IsSticky {
			marker = "*"
		}
		items = append(items, Info(fmt.Sprintf("%s %d. %s — %s (%s)", marker, i+1, bul.Title, bul.Author, bul.PostedAt.Format("2006-01-02"))))
	}
	items = append(items, Sep(), Option("B", "Back"))
	return MenuRender{Title: "Bulletin Listing", Items: items, Prompt: "Number to read, or B for back"}
}

func (b *BulletinsScreen) renderReading() MenuRender {
	items := []MenuItem{
		Info(fmt.Sprintf("From: %s", b.reading.Author)),
		Info(fmt.Sprintf("Posted: %s", b.reading.PostedAt.Format("2006-01-02 15:04"))),
		Sep(),
		Info(b.reading.Content),
		Sep(),
		Option("B", "Back"),
	}
	return MenuRender{Title: b.reading.Title, Items: items, Prompt: "Press Enter to continue"}
}

// HandleInput dispatches input for whichever sub-state is active.
func (b *BulletinsScreen) HandleInput(v Viewer, input string) MenuAction {
	switch b.state {
	case BulletinListing:
		return b.handleListing(input)
	case BulletinReading:
		b.state = BulletinMainMenu
		return MenuAction{Kind: ActionNone}
	case BulletinPosting:
		return b.handlePosting(v, input)
	case BulletinPostingContent:
		return b.handlePostingContent(input)
	default:
		return b.handleMain(v, input)
	}
}

func (b *BulletinsScreen) handleMain(v Viewer, input string) MenuAction {
	cmd := normalizeCommand(input)
	switch cmd {
	case "L":
		return MenuAction{Kind: ActionBulletinRefreshListing} // controller loads listing and calls SetListing
	case "N":
		stats := v.BulletinStats()
		name, _ := v.CurrentUsername()
		for _, bul := range stats.Recent {
			if !bul.ReadBy[name] {
				return MenuAction{Kind: ActionBulletinMarkRead, BulletinID: bul.ID}
			}
		}
		return ShowMessage("No unread bulletins.")
	case "P":
		if !v.IsLoggedIn() {
			// Anonymous posting is allowed iff the caller's config says so;
			// the controller enforces that before invoking service.post.
		}
		b.state = BulletinPosting
		return MenuAction{Kind: ActionNone}
	case "U":
		b.unreadOnly = !b.unreadOnly
		return MenuAction{Kind: ActionBulletinToggleFilter}
	case "B":
		return GoTo(Main)
	default:
		if idx, err := strconv.Atoi(cmd); err == nil {
			stats := v.BulletinStats()
			if idx >= 1 && idx <= len(stats.Recent) {
				return MenuAction{Kind: ActionBulletinMarkRead, BulletinID: stats.Recent[idx-1].ID}
			}
		}
		return ShowMessage("Unknown command.")
	}
}

func (b *BulletinsScreen) handleListing(input string) MenuAction {
	cmd := normalizeCommand(input)
	if cmd == "B" {
		b.state = BulletinMainMenu
		return MenuAction{Kind: ActionNone}
	}
	if idx, err := strconv.Atoi(cmd); err == nil && idx >= 1 && idx <= len(b.listing) {
		return MenuAction{Kind: ActionBulletinMarkRead, BulletinID: b.listing[idx-1].ID}
	}
	return ShowMessage("Unknown command.")
}

func (b *BulletinsScreen) handlePosting(v Viewer, input string) MenuAction {
	if input == "" {
		b.state = BulletinMainMenu
		return MenuAction{Kind: ActionNone}
	}
	b.pendingTitle = input
	b.state = BulletinPostingContent
	return MenuAction{Kind: ActionNone}
}

func (b *BulletinsScreen) handlePostingContent(input string) MenuAction {
	b.state = BulletinMainMenu
	title := b.pendingTitle
	b.pendingTitle = ""
	if input == "" {
		return ShowMessage("Bulletin post cancelled: empty content.")
	}
	return MenuAction{Kind: ActionBulletinPost, BulletinTitle: title, BulletinContent: input}
}

// SetReading lets the controller hand the screen the bulletin it just
// loaded so Render can show it.
func (b *BulletinsScreen) SetReading(bul store.Bulletin) {
	b.reading = bul
	b.state = BulletinReading
}

// UnreadOnly reports whether the unread-only filter is active.
func (b *BulletinsScreen) UnreadOnly() bool { return b.unreadOnly }
