package session

import (
	"fmt"
	"strings"

	"github.com/sdsalyer/moonbase/internal/bbserr"
)

// openFilesMenu implements the Main menu's "Files" option: list configured
// doors, prompt for one, and hand the raw stream to doors.Launcher for the
// duration of the program. Telnet command bytes are still parsed out
// transparently by Stream.Read/Write underneath, so door output is exactly
// the bytes the door program writes.
func (s *Session) openFilesMenu() error {
	if s.doors == nil || len(s.doors.Names()) == 0 {
		return s.showMessage("No door programs are configured.")
	}

	list := "\nAvailable doors:\n"
	for _, name := range s.doors.Names() {
		list += "  " + name + "\n"
	}
	if err := s.write(list + "\nDoor name (blank to cancel): "); err != nil {
		return err
	}

	input, err := s.readLine()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(input)
	if name == "" {
		return nil
	}

	if _, ok := s.doors.Get(name); !ok {
		return bbserr.InvalidInput("no such door: %s", name)
	}

	if err := s.write(fmt.Sprintf("\nLaunching %s...\n", name)); err != nil {
		return err
	}
	if err := s.doors.Run(name, s.Stream, s.effectiveWidth, 25); err != nil {
		return err
	}
	return s.showMessage(fmt.Sprintf("%s exited.", name))
}
