package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdsalyer/moonbase/internal/store"
)

const (
	minWidth  = 80
	minHeight = 24
	listRows  = 10
)

// tabIndex identifies one of the console's three read-only panels.
type tabIndex int

const (
	tabUsers tabIndex = iota
	tabBulletins
	tabMessages
	tabCount
)

func (t tabIndex) label() string {
	switch t {
	case tabUsers:
		return "Users"
	case tabBulletins:
		return "Bulletins"
	case tabMessages:
		return "Messages"
	default:
		return ""
	}
}

// row is one line of a list panel plus the full text shown in the detail
// pane when it's selected.
type row struct {
	summary string
	detail  string
}

// Model is the sysopctl bubbletea model: a tab strip, a scrolling list, and
// a detail pane for whatever row is under the cursor.
type Model struct {
	users     *store.Users
	bulletins *store.Bulletins
	messages  *store.Messages

	tab      tabIndex
	rows     [3][]row
	cursor   [3]int
	scroll   [3]int
	filter   [3]string
	reloaded time.Time

	filtering   bool
	filterInput textinput.Model

	width, height int
}

func newModel(users *store.Users, bulletins *store.Bulletins, messages *store.Messages) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 40
	ti.Width = 30

	m := Model{
		users:       users,
		bulletins:   bulletins,
		messages:    messages,
		filterInput: ti,
		width:       minWidth,
		height:      minHeight,
	}
	m.reload()
	return m
}

// visibleRows returns the current tab's rows narrowed by its active filter
// (a case-insensitive substring match against each row's summary line).
func (m Model) visibleRows() []row {
	all := m.rows[m.tab]
	query := strings.ToLower(m.filter[m.tab])
	if query == "" {
		return all
	}
	out := make([]row, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.summary), query) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) reload() {
	m.rows[tabUsers] = userRows(m.users.All())
	m.rows[tabBulletins] = bulletinRows(m.bulletins.All())
	m.rows[tabMessages] = messageRows(m.messages.All())
	for t := range m.rows {
		if m.cursor[t] >= len(m.rows[t]) {
			m.cursor[t] = max(0, len(m.rows[t])-1)
		}
	}
	m.reloaded = time.Now()
}

func userRows(users []store.User) []row {
	out := make([]row, len(users))
	for i, u := range users {
		status := "active"
		if !u.IsActive {
			status = "disabled"
		}
		out[i] = row{
			summary: fmt.Sprintf("%-20s %-9s logins:%-5d last:%s", u.Username, status, u.LoginCount, formatTime(u.LastLogin)),
			detail: fmt.Sprintf(
				"Username:   %s\nEmail:      %s\nStatus:     %s\nCreated:    %s\nLast login: %s\nLogin count: %d",
				u.Username, orNone(u.Email), status, formatTime(u.CreatedAt), formatTime(u.LastLogin), u.LoginCount,
			),
		}
	}
	return out
}

func bulletinRows(bulletins []store.Bulletin) []row {
	out := make([]row, len(bulletins))
	for i, b := range bulletins {
		sticky := " "
		if b.IsSticky {
			sticky = "*"
		}
		out[i] = row{
			summary: fmt.Sprintf("%s #%-5d %-30s by %-15s %s", sticky, b.ID, truncate(b.Title, 30), b.Author, formatTime(b.PostedAt)),
			detail: fmt.Sprintf(
				"Bulletin #%d: %s\nAuthor:  %s\nPosted:  %s\nSticky:  %v\nRead by: %d user(s)\n\n%s",
				b.ID, b.Title, b.Author, formatTime(b.PostedAt), b.IsSticky, len(b.ReadBy), b.Content,
			),
		}
	}
	return out
}

func messageRows(messages []store.PrivateMessage) []row {
	out := make([]row, len(messages))
	for i, msg := range messages {
		status := "unread"
		if msg.ReadAt != nil {
			status = "read"
		}
		out[i] = row{
			summary: fmt.Sprintf("#%-5d %-15s -> %-15s %-7s %-30s %s", msg.ID, msg.Sender, msg.Recipient, status, truncate(msg.Subject, 30), formatTime(msg.SentAt)),
			detail: fmt.Sprintf(
				"Message #%d\nFrom:    %s\nTo:      %s\nSubject: %s\nSent:    %s\nStatus:  %s\n\n%s",
				msg.ID, msg.Sender, msg.Recipient, msg.Subject, formatTime(msg.SentAt), status, msg.Content,
			),
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("moonbase sysopctl")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(minWidth, msg.Width)
		m.height = max(minHeight, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filter[m.tab] = m.filterInput.Value()
				m.filtering = false
				m.filterInput.Blur()
				m.cursor[m.tab], m.scroll[m.tab] = 0, 0
			case "esc":
				m.filtering = false
				m.filterInput.Blur()
			default:
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right", "l":
			m.tab = (m.tab + 1) % tabCount
		case "shift+tab", "left", "h":
			m.tab = (m.tab - 1 + tabCount) % tabCount
		case "down", "j":
			m.moveCursor(1)
		case "up", "k":
			m.moveCursor(-1)
		case "/":
			m.filtering = true
			m.filterInput.SetValue(m.filter[m.tab])
			m.filterInput.Focus()
		case "esc":
			if m.filter[m.tab] != "" {
				m.filter[m.tab] = ""
				m.cursor[m.tab], m.scroll[m.tab] = 0, 0
			}
		case "r":
			m.reload()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	rows := m.visibleRows()
	if len(rows) == 0 {
		return
	}
	c := m.cursor[m.tab] + delta
	m.cursor[m.tab] = max(0, min(len(rows)-1, c))

	if m.cursor[m.tab] < m.scroll[m.tab] {
		m.scroll[m.tab] = m.cursor[m.tab]
	}
	if m.cursor[m.tab] >= m.scroll[m.tab]+listRows {
		m.scroll[m.tab] = m.cursor[m.tab] - listRows + 1
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(renderTabBar(m.tab, m.width))
	b.WriteByte('\n')

	if m.filtering {
		b.WriteString(m.filterInput.View())
	} else if m.filter[m.tab] != "" {
		b.WriteString(helpStyle.Render(fmt.Sprintf("filter: %q (esc to clear)", m.filter[m.tab])))
	}
	b.WriteByte('\n')

	rows := m.visibleRows()
	b.WriteString(renderList(rows, m.cursor[m.tab], m.scroll[m.tab], listRows, m.width))
	b.WriteByte('\n')

	detail := "(no entries)"
	if len(rows) > 0 {
		detail = rows[m.cursor[m.tab]].detail
	}
	b.WriteString(renderDetail(detail, m.width))
	b.WriteByte('\n')

	b.WriteString(helpStyle.Render(
		fmt.Sprintf("tab/←→ switch panel · ↑↓ move · / filter · r reload (last: %s) · q quit", m.reloaded.Format("15:04:05")),
	))
	return b.String()
}
