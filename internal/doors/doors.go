// Package doors launches external door programs from the Files menu,
// gated by config.FeaturesConfig.FileUploadsEnabled.
//
// Grounded on the teacher's internal/menu door_handler.go (native-door
// branch: PTY-backed exec.Command, bidirectional io.Copy between the
// session and the PTY master), stripped of the DOS/dosemu2 dropfile
// machinery (DOOR.SYS/DOOR32.SYS/CHAIN.TXT/DORINFO1.DEF generation, the
// SSH-specific SetReadInterrupt hook) that has no SPEC_FULL analogue —
// moonbase doors are plain native programs, not legacy DOS BBS games run
// under an emulator.
package doors

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/creack/pty"

	"github.com/sdsalyer/moonbase/internal/bbserr"
	"github.com/sdsalyer/moonbase/internal/config"
)

// Launcher owns the registry of configured door programs.
type Launcher struct {
	doors map[string]config.DoorConfig
}

// NewLauncher loads door definitions from the given doors.json path.
func NewLauncher(doorsPath string) (*Launcher, error) {
	doors, err := config.LoadDoors(doorsPath)
	if err != nil {
		return nil, bbserr.Configuration("load doors file %s: %v", doorsPath, err)
	}
	return &Launcher{doors: doors}, nil
}

// Names returns the configured door names, sorted.
func (l *Launcher) Names() []string {
	names := make([]string, 0, len(l.doors))
	for name := range l.doors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up a door by name.
func (l *Launcher) Get(name string) (config.DoorConfig, bool) {
	d, ok := l.doors[name]
	return d, ok
}

// argv resolves the argument vector for a door: its explicit Args if set,
// otherwise a shlex split of Command treated as a full command line, so a
// sysop can configure either "command": "/bin/lbacon", "args": ["--fast"]
// or the more typical single-line "command": "/bin/lbacon --fast".
func argv(cfg config.DoorConfig) ([]string, error) {
	if len(cfg.Args) > 0 {
		return append([]string{cfg.Command}, cfg.Args...), nil
	}
	parts, err := shlex.Split(cfg.Command, true)
	if err != nil {
		return nil, fmt.Errorf("parse door command %q: %w", cfg.Command, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("door command is empty")
	}
	return parts, nil
}

// Run launches the named door as a child process attached to a PTY sized
// width x height, copying bytes bidirectionally between rw (the caller's
// telnet stream) and the door until it exits.
func (l *Launcher) Run(name string, rw io.ReadWriter, width, height int) error {
	cfg, ok := l.Get(name)
	if !ok {
		return bbserr.InvalidInput("no such door: %s", name)
	}

	parts, err := argv(cfg)
	if err != nil {
		return bbserr.Configuration("%v", err)
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	if cfg.WorkingDirectory != "" {
		cmd.Dir = cfg.WorkingDirectory
	}
	cmd.Env = os.Environ()
	for k, v := range cfg.EnvironmentVars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 25
	}
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("start door %s", name), err)
	}
	defer ptmx.Close()

	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		io.Copy(ptmx, rw)
	}()

	_, copyErr := io.Copy(rw, ptmx)
	waitErr := cmd.Wait()
	<-inputDone

	if waitErr != nil {
		return bbserr.New(bbserr.KindIO, fmt.Sprintf("door %s exited with error", name), waitErr)
	}
	if copyErr != nil && !strings.Contains(copyErr.Error(), "input/output error") {
		return bbserr.FromIO(copyErr)
	}
	return nil
}
