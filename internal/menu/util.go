package menu

import "strings"

// normalizeCommand trims and upper-cases a single-command input line so
// screens can compare against plain ASCII letters regardless of the
// client's casing or trailing whitespace.
func normalizeCommand(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}
