package scheduler

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sdsalyer/moonbase/internal/session"
	"github.com/sdsalyer/moonbase/internal/telnet"
)

func newPipeSession(registry *session.Registry) (*session.Session, net.Conn) {
	serverConn, clientConn := net.Pipe()
	stream := telnet.NewStream(serverConn)
	sess := session.New(uuid.New(), stream, serverConn.RemoteAddr(), session.Deps{Registry: registry})
	return sess, clientConn
}

func TestIdleSweepJobDisconnectsOnlyIdleSessions(t *testing.T) {
	registry := session.NewRegistry()

	fresh, freshClient := newPipeSession(registry)
	defer freshClient.Close()
	stale, staleClient := newPipeSession(registry)
	defer staleClient.Close()

	registry.Register(fresh)
	registry.Register(stale)

	stale.LastActivity = time.Now().Add(-time.Hour)

	job := NewIdleSweepJob(registry, 5*time.Minute)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("idle sweep run: %v", err)
	}

	buf := make([]byte, 1)
	staleClient.SetReadDeadline(time.Now().Add(20 * time.Millisecond))
	if _, err := staleClient.Read(buf); err != io.EOF {
		t.Errorf("expected stale session's stream to report io.EOF, got %v", err)
	}

	freshClient.SetReadDeadline(time.Now().Add(20 * time.Millisecond))
	if _, err := freshClient.Read(buf); err == io.EOF {
		t.Errorf("expected fresh session's stream to remain open")
	}
}

func TestPersistenceSnapshotJobCopiesExistingFiles(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "scheduler_snapshot_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "users.json"), []byte("[]"), 0644); err != nil {
		t.Fatalf("seed users.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "bulletins.json"), []byte("[]"), 0644); err != nil {
		t.Fatalf("seed bulletins.json: %v", err)
	}
	// messages.json intentionally omitted: the job must tolerate a missing file.

	job := NewPersistenceSnapshotJob(tmpDir)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("persistence snapshot run: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "backups"))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one backup snapshot dir, got %d", len(entries))
	}

	backupDir := filepath.Join(tmpDir, "backups", entries[0].Name())
	for _, name := range []string{"users.json", "bulletins.json"} {
		if _, err := os.Stat(filepath.Join(backupDir, name)); err != nil {
			t.Errorf("expected %s to be backed up: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(backupDir, "messages.json")); !os.IsNotExist(err) {
		t.Errorf("expected messages.json to be skipped, got err=%v", err)
	}
}
