package store

import "testing"

func knownUsers(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestMessagesSendAndGet(t *testing.T) {
	m, err := NewMessages(t.TempDir(), knownUsers("alice", "bob"))
	if err != nil {
		t.Fatalf("NewMessages: %v", err)
	}

	sent, err := m.Send(SendMessageRequest{Sender: "alice", Recipient: "bob", Subject: "hi", Content: "hello bob"}, testLimits())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, ok := m.Get(sent.ID, "alice"); !ok {
		t.Error("sender should see the message")
	}
	if _, ok := m.Get(sent.ID, "bob"); !ok {
		t.Error("recipient should see the message")
	}
	if _, ok := m.Get(sent.ID, "carol"); ok {
		t.Error("third party should not see the message")
	}
}

func TestMessagesSendRejectsSelfAndUnknownRecipient(t *testing.T) {
	m, _ := NewMessages(t.TempDir(), knownUsers("alice"))

	if _, err := m.Send(SendMessageRequest{Sender: "alice", Recipient: "alice", Subject: "s", Content: "c"}, testLimits()); err == nil {
		t.Error("expected self-send to be rejected")
	}
	if _, err := m.Send(SendMessageRequest{Sender: "alice", Recipient: "ghost", Subject: "s", Content: "c"}, testLimits()); err == nil {
		t.Error("expected unknown recipient to be rejected")
	}
}

func TestMessagesInboxSentAndMarkRead(t *testing.T) {
	m, _ := NewMessages(t.TempDir(), knownUsers("alice", "bob"))
	first, _ := m.Send(SendMessageRequest{Sender: "alice", Recipient: "bob", Subject: "one", Content: "c1"}, testLimits())
	_, _ = m.Send(SendMessageRequest{Sender: "alice", Recipient: "bob", Subject: "two", Content: "c2"}, testLimits())

	inbox := m.Inbox("bob")
	if len(inbox) != 2 {
		t.Fatalf("expected 2 inbox messages, got %d", len(inbox))
	}
	if inbox[0].Subject != "two" {
		t.Errorf("expected most recent message first, got %s", inbox[0].Subject)
	}

	sent := m.Sent("alice")
	if len(sent) != 2 {
		t.Fatalf("expected 2 sent messages, got %d", len(sent))
	}

	stats := m.Stats("bob")
	if stats.UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d", stats.UnreadCount)
	}

	if err := m.MarkRead(first.ID, "bob"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	stats = m.Stats("bob")
	if stats.UnreadCount != 1 {
		t.Fatalf("expected 1 unread after marking read, got %d", stats.UnreadCount)
	}

	if err := m.MarkRead(first.ID, "alice"); err == nil {
		t.Error("expected sender to be unable to mark a message as read")
	}
}

func TestMessagesDeletePurgesOnceBothSidesDelete(t *testing.T) {
	m, _ := NewMessages(t.TempDir(), knownUsers("alice", "bob"))
	msg, _ := m.Send(SendMessageRequest{Sender: "alice", Recipient: "bob", Subject: "s", Content: "c"}, testLimits())

	if err := m.Delete(msg.ID, "bob"); err != nil {
		t.Fatalf("Delete (recipient): %v", err)
	}
	if _, ok := m.Get(msg.ID, "bob"); ok {
		t.Error("recipient should no longer see a message it deleted")
	}
	if _, ok := m.Get(msg.ID, "alice"); !ok {
		t.Error("sender should still see the message until it also deletes")
	}

	if err := m.Delete(msg.ID, "alice"); err != nil {
		t.Fatalf("Delete (sender): %v", err)
	}
	if _, ok := m.Get(msg.ID, "alice"); ok {
		t.Error("message should be purged once both sides delete")
	}
}
