package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads config.json, debouncing rapid successive writes.
// Grounded on the teacher's cmd/vision3/config_watcher.go, narrowed to the
// single file this module cares about.
type Watcher struct {
	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	done       chan struct{}
	configPath string
	onReload   func(ServerConfig)
}

// NewWatcher watches configPath's directory for changes to config.json and
// calls onReload with the freshly loaded config after each debounced write.
func NewWatcher(configPath string, onReload func(ServerConfig)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(configPath); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", configPath, err)
	}

	w := &Watcher{
		watcher:    fw,
		done:       make(chan struct{}),
		configPath: configPath,
		onReload:   onReload,
	}
	go w.loop()
	log.Printf("INFO: watching %s for config.json changes", configPath)
	return w, nil
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.watcher.Close()
	w.watcher = nil
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != "config.json" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ERROR: config watcher: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadServerConfig(w.configPath)
	if err != nil {
		log.Printf("ERROR: failed to reload config.json: %v", err)
		return
	}
	log.Printf("INFO: config.json reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
