package menu

import (
	"fmt"

	"github.com/sdsalyer/moonbase/internal/store"
)

// MessageSubState is the Messages screen's own state machine, per §4.7:
// MainMenu, Inbox, Sent, Compose, ComposeContent, Reading.
type MessageSubState int

const (
	MessageMainMenu MessageSubState = iota
	MessageInbox
	MessageSent
	MessageCompose
	MessageComposeContent
	MessageReading
)

const maxMessagesShown = 20

// MessagesScreen holds the Messages menu's sub-state across turns.
type MessagesScreen struct {
	state     MessageSubState
	inbox     []store.PrivateMessage
	sent      []store.PrivateMessage
	reading   store.PrivateMessage
	recipient string
	subject   string
}

// NewMessagesScreen constructs the Messages menu screen.
func NewMessagesScreen() *MessagesScreen { return &MessagesScreen{} }

// Reset returns the screen to its main-menu sub-state.
func (m *MessagesScreen) Reset() { *m = MessagesScreen{} }

// SetInbox/SetSent let the controller hand the screen a freshly loaded list.
func (m *MessagesScreen) SetInbox(msgs []store.PrivateMessage) {
	m.inbox = msgs
	m.state = MessageInbox
}

func (m *MessagesScreen) SetSent(msgs []store.PrivateMessage) {
	m.sent = msgs
	m.state = MessageSent
}

// SetReading lets the controller hand the screen the message it just loaded.
func (m *MessagesScreen) SetReading(msg store.PrivateMessage) {
	m.reading = msg
	m.state = MessageReading
}

// Recipient/Subject expose the in-progress compose state to the controller
// so it can synchronously prompt for the subject/content per §4.8.
func (m *MessagesScreen) Recipient() string { return m.recipient }
func (m *MessagesScreen) Subject() string   { return m.subject }

// BeginComposeContent transitions to ComposeContent once the controller has
// synchronously collected the subject.
func (m *MessagesScreen) BeginComposeContent(recipient, subject string) {
	m.recipient = recipient
	m.subject = subject
	m.state = MessageComposeContent
}

// Render builds the view for whichever sub-state is active.
func (m *MessagesScreen) Render(v Viewer) MenuRender {
	switch m.state {
	case MessageInbox:
		return m.renderList("Inbox", m.inbox, true)
	case MessageSent:
		return m.renderList("Sent", m.sent, false)
	case MessageReading:
		return m.renderReading()
	case MessageCompose:
		return MenuRender{Title: "Compose Message", Prompt: "To (blank to cancel)"}
	case MessageComposeContent:
		return MenuRender{Title: fmt.Sprintf("Compose Message to %s: %s", m.recipient, m.subject), Prompt: "Content"}
	default:
		return m.renderMain(v)
	}
}

func (m *MessagesScreen) renderMain(v Viewer) MenuRender {
	stats := v.MessageStats()
	items := []MenuItem{
		Info(fmt.Sprintf("Inbox: %d (%d unread), Sent: %d", stats.TotalInbox, stats.UnreadCount, stats.TotalSent)),
		Sep(),
		Option("I", "Inbox"),
		Option("S", "Sent"),
		Option("C", "Compose"),
		Option("B", "Back to main menu"),
	}
	return MenuRender{Title: "Messages", Items: items, Prompt: "Command"}
}

func (m *MessagesScreen) renderList(title string, msgs []store.PrivateMessage, showSender bool) MenuRender {
	items := make([]MenuItem, 0, len(msgs)+2)
	for i, msg := range msgs {
		if i >= maxMessagesShown {
			break
		}
		status := "[R]"
		if msg.ReadAt == nil {
			status = "[N]"
		}
		who := msg.Recipient
		if showSender {
			who = msg.Sender
		}
		items = append(items, Info(fmt.Sprintf("%s %d. %s — %s", status, i+1, msg.Subject, who)))
	}
	items = append(items, Sep(), Option("B", "Back"))
	return MenuRender{Title: title, Items: items, Prompt: "Number to read, or B for back"}
}

func (m *MessagesScreen) renderReading() MenuRender {
	items := []MenuItem{
		Info(fmt.Sprintf("From: %s", m.reading.Sender)),
		Info(fmt.Sprintf("To: %s", m.reading.Recipient)),
		Info(fmt.Sprintf("Sent: %s", m.reading.SentAt.Format("2006-01-02 15:04"))),
		Sep(),
		Info(m.reading.Content),
		Sep(),
		Option("D", "Delete"),
		Option("B", "Back"),
	}
	return MenuRender{Title: m.reading.Subject, Items: items, Prompt: "Command"}
}

// HandleInput dispatches input for whichever sub-state is active.
func (m *MessagesScreen) HandleInput(v Viewer, input string) MenuAction {
	switch m.state {
	case MessageInbox:
		return m.handleList(input, m.inbox)
	case MessageSent:
		return m.handleList(input, m.sent)
	case MessageReading:
		return m.handleReading(input)
	case MessageCompose:
		return m.handleCompose(input)
	case MessageComposeContent:
		return m.handleComposeContent(input)
	default:
		return m.handleMain(input)
	}
}

func (m *MessagesScreen) handleMain(input string) MenuAction {
	switch normalizeCommand(input) {
	case "I":
		return MenuAction{Kind: ActionMessageLoadInbox} // controller loads inbox and calls SetInbox
	case "S":
		return MenuAction{Kind: ActionMessageLoadSent} // controller loads sent and calls SetSent
	case "C":
		m.state = MessageCompose
		return MenuAction{Kind: ActionNone}
	case "B":
		return GoTo(Main)
	default:
		return ShowMessage("Unknown command.")
	}
}

func (m *MessagesScreen) handleList(input string, msgs []store.PrivateMessage) MenuAction {
	cmd := normalizeCommand(input)
	if cmd == "B" {
		m.state = MessageMainMenu
		return MenuAction{Kind: ActionNone}
	}
	var idx int
	if _, err := fmt.Sscanf(cmd, "%d", &idx); err == nil && idx >= 1 && idx <= len(msgs) {
		return MenuAction{Kind: ActionMessageMarkRead, MessageID: msgs[idx-1].ID}
	}
	return ShowMessage("Unknown command.")
}

func (m *MessagesScreen) handleReading(input string) MenuAction {
	switch normalizeCommand(input) {
	case "D":
		m.state = MessageMainMenu
		return MenuAction{Kind: ActionMessageDelete, MessageID: m.reading.ID}
	default:
		m.state = MessageMainMenu
		return MenuAction{Kind: ActionNone}
	}
}

func (m *MessagesScreen) handleCompose(input string) MenuAction {
	if input == "" {
		m.state = MessageMainMenu
		return MenuAction{Kind: ActionNone}
	}
	return MenuAction{Kind: ActionMessageComposeSubject, Recipient: input}
}

func (m *MessagesScreen) handleComposeContent(input string) MenuAction {
	m.state = MessageMainMenu
	recipient, subject := m.recipient, m.subject
	m.recipient, m.subject = "", ""
	if input == "" {
		return ShowMessage("Message cancelled: empty content.")
	}
	return MenuAction{Kind: ActionMessageComposeSend, Recipient: recipient, Subject: subject, Content: input}
}
