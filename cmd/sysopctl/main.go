// Command sysopctl is a local, read-only bubbletea console over moonbase's
// data stores: user roster, bulletins, and private messages. It opens the
// same JSON files internal/store manages directly, so it is meant to be run
// against a stopped server, or treated as an eventually-consistent snapshot
// of a running one.
//
// Grounded on the teacher's local admin TUIs (internal/usereditor,
// internal/configeditor, internal/stringeditor) for the overall shape —
// a tea.Model with a hand-rolled cursor/scroll list and lipgloss-bordered
// view — narrowed to a single read-only list+detail pane instead of their
// full field-by-field editors, since nothing in SPEC_FULL.md calls for an
// out-of-band admin write path. The initial terminal size comes from
// golang.org/x/term, same as the teacher's cmd/debug-tui; bubbletea's own
// WindowSizeMsg takes over from there on resize.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/sdsalyer/moonbase/internal/store"
)

func main() {
	basePath, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysopctl: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	var rootPath string
	flag.StringVar(&rootPath, "root", basePath, "moonbase root directory (expects data/ beneath it)")
	flag.Parse()

	dataPath := filepath.Join(rootPath, "data")

	users, err := store.NewUsers(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysopctl: failed to open user store: %v\n", err)
		os.Exit(1)
	}
	bulletins, err := store.NewBulletins(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysopctl: failed to open bulletin store: %v\n", err)
		os.Exit(1)
	}
	messages, err := store.NewMessages(dataPath, users.Exists)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysopctl: failed to open message store: %v\n", err)
		os.Exit(1)
	}

	m := newModel(users, bulletins, messages)
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = max(minWidth, width), max(minHeight, height)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sysopctl: %v\n", err)
		os.Exit(1)
	}
}
