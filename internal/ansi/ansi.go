// Package ansi provides ANSI escape codes for plain terminal output.
// Full-screen views use lipgloss instead.
package ansi

import "strings"

// SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Screen control codes.
const (
	// ClearScreen erases the display and homes the cursor.
	ClearScreen = "\033[2J\033[H"

	// ClearLine clears the entire current line.
	ClearLine = "\033[2K"
)

// Paint wraps s in codes followed by Reset. With no codes s is returned as is.
func Paint(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Strip removes SGR sequences from s.
func Strip(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] == ';' || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			if j < len(s) && s[j] == 'm' {
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
