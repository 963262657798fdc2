package store

import "testing"

func TestBulletinsPostAndLoad(t *testing.T) {
	b, err := NewBulletins(t.TempDir())
	if err != nil {
		t.Fatalf("NewBulletins: %v", err)
	}

	posted, err := b.Post(PostBulletinRequest{Title: "Welcome", Content: "hello", Author: "sysop"}, testLimits())
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if posted.ID != 1 {
		t.Errorf("expected first bulletin id 1, got %d", posted.ID)
	}

	loaded, ok := b.Load(posted.ID)
	if !ok {
		t.Fatal("expected bulletin to be loadable")
	}
	if loaded.Title != "Welcome" {
		t.Errorf("expected title Welcome, got %s", loaded.Title)
	}
}

func TestBulletinsPostRejectsOversizedTitle(t *testing.T) {
	b, _ := NewBulletins(t.TempDir())
	long := make([]byte, maxBulletinTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := b.Post(PostBulletinRequest{Title: string(long), Content: "body", Author: "sysop"}, testLimits()); err == nil {
		t.Error("expected oversized title to be rejected")
	}
}

func TestBulletinsMarkReadIsIdempotent(t *testing.T) {
	b, _ := NewBulletins(t.TempDir())
	posted, _ := b.Post(PostBulletinRequest{Title: "Notice", Content: "body", Author: "sysop"}, testLimits())

	if err := b.MarkRead(posted.ID, "alice"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := b.MarkRead(posted.ID, "alice"); err != nil {
		t.Fatalf("second MarkRead should be a no-op, got: %v", err)
	}
	if err := b.MarkRead(999, "alice"); err == nil {
		t.Error("expected error marking unknown bulletin as read")
	}
}

func TestBulletinsStatsSortsStickyFirstThenRecent(t *testing.T) {
	b, _ := NewBulletins(t.TempDir())
	first, _ := b.Post(PostBulletinRequest{Title: "First", Content: "a", Author: "sysop"}, testLimits())
	_, _ = b.Post(PostBulletinRequest{Title: "Second", Content: "b", Author: "sysop"}, testLimits())
	sticky, _ := b.Post(PostBulletinRequest{Title: "Sticky", Content: "c", Author: "sysop", IsSticky: true}, testLimits())

	stats := b.Stats(nil)
	if stats.TotalBulletins != 3 {
		t.Fatalf("expected 3 bulletins, got %d", stats.TotalBulletins)
	}
	if stats.Recent[0].ID != sticky.ID {
		t.Fatalf("expected sticky bulletin first, got id %d", stats.Recent[0].ID)
	}
	if stats.Recent[1].ID == first.ID {
		// Second should sort ahead of First since it was posted later.
		t.Errorf("expected Second ahead of First, got First at index 1")
	}

	user := "alice"
	if err := b.MarkRead(sticky.ID, user); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	afterRead := b.Stats(&user)
	if afterRead.UnreadCount != 2 {
		t.Fatalf("expected 2 unread after marking one read, got %d", afterRead.UnreadCount)
	}
}
