package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sdsalyer/moonbase/internal/bbserr"
)

const maxMessageSubjectLength = 100

type messageFile struct {
	NextID   uint32           `json:"nextId"`
	Messages []PrivateMessage `json:"messages"`
}

// Messages is the C5 repository over the §3 private-message entity.
// Grounded on original_source/src/message_repository.rs for the
// visibility/purge contract, and on the teacher's manager.go persistence
// idiom.
//
// Unlike the Rust original's always-true user_exists stub, recipient
// existence is checked for real here (see userExists), since the spec's
// §4.5 contract explicitly requires sending to reject an unknown recipient.
type Messages struct {
	mu         sync.RWMutex
	path       string
	nextID     uint32
	byID       map[uint32]*PrivateMessage
	userExists func(string) bool
}

// NewMessages opens (or creates) the message store backed by messages.json
// in dataDir. userExists is consulted by Send to validate the recipient.
func NewMessages(dataDir string, userExists func(string) bool) (*Messages, error) {
	m := &Messages{
		path:       filepath.Join(dataDir, "messages.json"),
		byID:       make(map[uint32]*PrivateMessage),
		nextID:     1,
		userExists: userExists,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Messages) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return m.persistLocked()
		}
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("read messages file %s", m.path), err)
	}
	if len(data) == 0 {
		return nil
	}
	var f messageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return bbserr.New(bbserr.KindIO, "parse messages.json", err)
	}
	for i := range f.Messages {
		m.byID[f.Messages[i].ID] = &f.Messages[i]
	}
	if f.NextID > 0 {
		m.nextID = f.NextID
	}
	return nil
}

// persistLocked rewrites messages.json in full. Caller must hold m.mu.
func (m *Messages) persistLocked() error {
	all := make([]PrivateMessage, 0, len(m.byID))
	for _, msg := range m.byID {
		all = append(all, *msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	data, err := json.MarshalIndent(messageFile{NextID: m.nextID, Messages: all}, "", "  ")
	if err != nil {
		return bbserr.New(bbserr.KindIO, "marshal messages", err)
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("write messages file %s", m.path), err)
	}
	return nil
}

// Send validates and stores a new private message, rejecting a recipient
// equal to the sender or a recipient that does not exist.
func (m *Messages) Send(req SendMessageRequest, limits Limits) (PrivateMessage, error) {
	if req.Recipient == req.Sender {
		return PrivateMessage{}, bbserr.InvalidInput("cannot send a message to yourself")
	}
	if m.userExists != nil && !m.userExists(req.Recipient) {
		return PrivateMessage{}, bbserr.InvalidInput("unknown recipient %q", req.Recipient)
	}
	if req.Subject == "" {
		return PrivateMessage{}, bbserr.InvalidInput("message subject must not be empty")
	}
	if len(req.Subject) > maxMessageSubjectLength {
		return PrivateMessage{}, bbserr.InvalidInput("message subject exceeds %d characters", maxMessageSubjectLength)
	}
	if req.Content == "" {
		return PrivateMessage{}, bbserr.InvalidInput("message content must not be empty")
	}
	if len(req.Content) > limits.MaxMessageLength {
		return PrivateMessage{}, bbserr.InvalidInput("message content exceeds %d characters", limits.MaxMessageLength)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	msg := PrivateMessage{
		ID:        m.nextID,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Content:   req.Content,
		SentAt:    nowUTC(),
	}
	m.byID[msg.ID] = &msg
	m.nextID++
	if err := m.persistLocked(); err != nil {
		delete(m.byID, msg.ID)
		m.nextID--
		return PrivateMessage{}, err
	}
	return msg, nil
}

// Get returns the message with the given id, if it exists and is visible to
// username.
func (m *Messages) Get(id uint32, username string) (PrivateMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.byID[id]
	if !ok || !msg.IsVisibleTo(username) {
		return PrivateMessage{}, false
	}
	return *msg, true
}

// Inbox returns username's received messages, sorted by SentAt descending.
func (m *Messages) Inbox(username string) []PrivateMessage {
	return m.filterSorted(func(msg *PrivateMessage) bool {
		return msg.Recipient == username && !msg.IsDeletedByRecipient
	})
}

// All returns every message regardless of sender/recipient or delete flags,
// sorted by SentAt descending. Used by the sysop console (cmd/sysopctl),
// which has no single username to scope Inbox/Sent to.
func (m *Messages) All() []PrivateMessage {
	return m.filterSorted(func(*PrivateMessage) bool { return true })
}

// Sent returns username's sent messages, sorted by SentAt descending.
func (m *Messages) Sent(username string) []PrivateMessage {
	return m.filterSorted(func(msg *PrivateMessage) bool {
		return msg.Sender == username && !msg.IsDeletedBySender
	})
}

func (m *Messages) filterSorted(keep func(*PrivateMessage) bool) []PrivateMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PrivateMessage, 0)
	for _, msg := range m.byID {
		if keep(msg) {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out
}

// MarkRead sets ReadAt the first time username (the recipient) reads the
// message; subsequent calls are no-ops.
func (m *Messages) MarkRead(id uint32, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.byID[id]
	if !ok || msg.Recipient != username {
		return bbserr.InvalidInput("message %d does not exist", id)
	}
	if msg.ReadAt != nil {
		return nil
	}
	now := nowUTC()
	msg.ReadAt = &now
	return m.persistLocked()
}

// Delete sets the delete flag for username's side of the conversation; once
// both sides have deleted it, the message is purged from storage.
func (m *Messages) Delete(id uint32, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.byID[id]
	if !ok || !msg.IsVisibleTo(username) {
		return bbserr.InvalidInput("message %d does not exist", id)
	}

	switch username {
	case msg.Sender:
		msg.IsDeletedBySender = true
	case msg.Recipient:
		msg.IsDeletedByRecipient = true
	}
	if msg.IsDeletedBySender && msg.IsDeletedByRecipient {
		delete(m.byID, id)
	}
	return m.persistLocked()
}

// Stats reports username's unread count, inbox/sent totals, and the top-10
// most recent inbox messages.
func (m *Messages) Stats(username string) MessageStats {
	inbox := m.Inbox(username)
	sent := m.Sent(username)

	unread := 0
	for _, msg := range inbox {
		if msg.ReadAt == nil {
			unread++
		}
	}

	recent := inbox
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return MessageStats{
		UnreadCount: unread,
		TotalInbox:  len(inbox),
		TotalSent:   len(sent),
		Recent:      recent,
	}
}
