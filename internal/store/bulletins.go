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

const maxBulletinTitleLength = 100

type bulletinFile struct {
	NextID    uint32     `json:"nextId"`
	Bulletins []Bulletin `json:"bulletins"`
}

// Bulletins is the C5 repository over the §3 Bulletin entity. Grounded on
// original_source/src/bulletin_repository.rs for the id-allocation and
// sort-order contract, and on the teacher's manager.go persistence idiom.
type Bulletins struct {
	mu     sync.RWMutex
	path   string
	nextID uint32
	byID   map[uint32]*Bulletin
}

// NewBulletins opens (or creates) the bulletin store backed by
// bulletins.json in dataDir.
func NewBulletins(dataDir string) (*Bulletins, error) {
	b := &Bulletins{
		path:   filepath.Join(dataDir, "bulletins.json"),
		byID:   make(map[uint32]*Bulletin),
		nextID: 1,
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bulletins) load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return b.persistLocked()
		}
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("read bulletins file %s", b.path), err)
	}
	if len(data) == 0 {
		return nil
	}
	var f bulletinFile
	if err := json.Unmarshal(data, &f); err != nil {
		return bbserr.New(bbserr.KindIO, "parse bulletins.json", err)
	}
	for i := range f.Bulletins {
		b.byID[f.Bulletins[i].ID] = &f.Bulletins[i]
	}
	if f.NextID > 0 {
		b.nextID = f.NextID
	}
	return nil
}

// persistLocked rewrites bulletins.json in full. Caller must hold b.mu.
func (b *Bulletins) persistLocked() error {
	all := make([]Bulletin, 0, len(b.byID))
	for _, bul := range b.byID {
		all = append(all, *bul)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	data, err := json.MarshalIndent(bulletinFile{NextID: b.nextID, Bulletins: all}, "", "  ")
	if err != nil {
		return bbserr.New(bbserr.KindIO, "marshal bulletins", err)
	}
	if err := os.WriteFile(b.path, data, 0600); err != nil {
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("write bulletins file %s", b.path), err)
	}
	return nil
}

// Load returns a copy of the bulletin with the given id, if present.
func (b *Bulletins) Load(id uint32) (Bulletin, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bul, ok := b.byID[id]
	if !ok {
		return Bulletin{}, false
	}
	return *bul, true
}

// Post validates and stores a new bulletin, allocating a monotonic id.
func (b *Bulletins) Post(req PostBulletinRequest, limits Limits) (Bulletin, error) {
	if req.Title == "" {
		return Bulletin{}, bbserr.InvalidInput("bulletin title must not be empty")
	}
	if len(req.Title) > maxBulletinTitleLength {
		return Bulletin{}, bbserr.InvalidInput("bulletin title exceeds %d characters", maxBulletinTitleLength)
	}
	if req.Content == "" {
		return Bulletin{}, bbserr.InvalidInput("bulletin content must not be empty")
	}
	if len(req.Content) > limits.MaxMessageLength {
		return Bulletin{}, bbserr.InvalidInput("bulletin content exceeds %d characters", limits.MaxMessageLength)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	bul := Bulletin{
		ID:       b.nextID,
		Title:    req.Title,
		Content:  req.Content,
		Author:   req.Author,
		PostedAt: nowUTC(),
		IsSticky: req.IsSticky,
		ReadBy:   make(map[string]bool),
	}
	b.byID[bul.ID] = &bul
	b.nextID++
	if err := b.persistLocked(); err != nil {
		delete(b.byID, bul.ID)
		b.nextID--
		return Bulletin{}, err
	}
	return bul, nil
}

// MarkRead idempotently records that username has read bulletin id.
func (b *Bulletins) MarkRead(id uint32, username string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	bul, ok := b.byID[id]
	if !ok {
		return bbserr.InvalidInput("bulletin %d does not exist", id)
	}
	if bul.ReadBy[username] {
		return nil
	}
	bul.ReadBy[username] = true
	return b.persistLocked()
}

// Stats reports totals, the unread count for currentUser (nil for an
// anonymous session), and the top-10 bulletins: sticky first, then by
// PostedAt descending (§8 invariant 8).
func (b *Bulletins) Stats(currentUser *string) BulletinStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := make([]Bulletin, 0, len(b.byID))
	unread := 0
	for _, bul := range b.byID {
		all = append(all, *bul)
		if currentUser == nil || !bul.ReadBy[*currentUser] {
			unread++
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].IsSticky != all[j].IsSticky {
			return all[i].IsSticky
		}
		return all[i].PostedAt.After(all[j].PostedAt)
	})
	if len(all) > 10 {
		all = all[:10]
	}

	return BulletinStats{
		TotalBulletins: len(b.byID),
		UnreadCount:    unread,
		Recent:         all,
	}
}

// All returns every bulletin, sticky first then by PostedAt descending —
// the same ordering as Stats' Recent, but without the top-10 truncation.
// Used by the sysop console (cmd/sysopctl).
func (b *Bulletins) All() []Bulletin {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := make([]Bulletin, 0, len(b.byID))
	for _, bul := range b.byID {
		all = append(all, *bul)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].IsSticky != all[j].IsSticky {
			return all[i].IsSticky
		}
		return all[i].PostedAt.After(all[j].PostedAt)
	})
	return all
}
