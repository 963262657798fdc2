package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sdsalyer/moonbase/internal/session"
)

// dataFiles are the whole-file JSON stores internal/store persists; kept
// here as a plain list rather than exported store accessors, since a backup
// job only needs paths, not the repositories' in-memory state.
var dataFiles = []string{"users.json", "bulletins.json", "messages.json"}

// NewIdleSweepJob builds a Job that force-disconnects any registered session
// that has been idle longer than idleTimeout. The session's own read
// deadline (§5, enforced per-connection in internal/session's main loop)
// already does this; this job is the process-wide backstop for a session
// blocked somewhere that isn't a plain Stream.Read (e.g. a Stream.Write to
// a client that has stopped reading, which has no deadline), matching the teacher's pattern of a supervisory sweep alongside
// per-connection timeouts.
func NewIdleSweepJob(registry *session.Registry, idleTimeout time.Duration) Job {
	return Job{
		ID:       "idle-sweep",
		Name:     "idle session sweep",
		Schedule: "0 */1 * * * *", // every minute
		Run: func(ctx context.Context) error {
			swept := 0
			for _, sess := range registry.ListActive() {
				if sess.IdleFor() < idleTimeout {
					continue
				}
				if err := sess.ForceDisconnect(); err != nil {
					log.Printf("WARN: idle sweep: disconnecting session %s: %v", sess.ID, err)
					continue
				}
				swept++
			}
			if swept > 0 {
				log.Printf("INFO: idle sweep disconnected %d session(s)", swept)
			}
			return nil
		},
	}
}

// NewPersistenceSnapshotJob builds a Job that copies the three store JSON
// files into a timestamped backup subdirectory of dataDir, the in-process
// equivalent of the teacher's FTN poll job shape retargeted to a plain
// backup sweep (§11 domain-stack wiring: "periodic persistence snapshot").
// The repositories already rewrite their files whole on every mutation
// (§5's coarse single-lock design), so this job only needs to read and copy
// what's already on disk — it never touches the repositories' in-memory
// state.
func NewPersistenceSnapshotJob(dataDir string) Job {
	return Job{
		ID:       "persistence-snapshot",
		Name:     "data file backup snapshot",
		Schedule: "0 */5 * * * *", // every five minutes
		Run: func(ctx context.Context) error {
			backupDir := filepath.Join(dataDir, "backups", time.Now().UTC().Format("20060102-150405"))
			if err := os.MkdirAll(backupDir, 0755); err != nil {
				return fmt.Errorf("create backup directory %s: %w", backupDir, err)
			}
			copied := 0
			for _, name := range dataFiles {
				if err := copyFile(filepath.Join(dataDir, name), filepath.Join(backupDir, name)); err != nil {
					if os.IsNotExist(err) {
						continue
					}
					return fmt.Errorf("backup %s: %w", name, err)
				}
				copied++
			}
			log.Printf("INFO: persistence snapshot: copied %d file(s) to %s", copied, backupDir)
			return nil
		},
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
