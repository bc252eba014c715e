package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

type role int

const (
	roleHeader role = iota
	roleTitle
	roleLabel
	roleHint
	roleMuted
)

// SGR sequences per role.
var palette = map[role]string{
	roleHeader: "\033[1;31m",
	roleTitle:  "\033[1;37m",
	roleLabel:  "\033[90m",
	roleHint:   "\033[36m",
	roleMuted:  "\033[2m",
}

var plain atomic.Bool

// DisableColors turns ANSI styling off for Format and Fprint.
func DisableColors() { plain.Store(true) }

// EnableColors turns ANSI styling back on.
func EnableColors() { plain.Store(false) }

func paint(r role, s string) string {
	if plain.Load() {
		return s
	}
	return palette[r] + s + "\033[0m"
}

const detailWidth = 70

// Format renders the error for a terminal: a header line with code and
// message, then the wrapped detail, the cause and the hint.
func (e *Error) Format() string {
	var b strings.Builder

	header := "ERROR:"
	if e.Code != "" {
		header = "ERROR " + e.Code + ":"
	}
	fmt.Fprintf(&b, "\n%s %s", paint(roleHeader, header), paint(roleTitle, e.Message))
	if e.Category != "" {
		fmt.Fprintf(&b, " %s", paint(roleMuted, "("+string(e.Category)+")"))
	}
	b.WriteString("\n\n")

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(roleLabel, "Cause: "), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(roleHint, "Hint: "), e.Suggestion)
	}
	return b.String()
}

// FormatCompact renders "CODE: message", or the message alone.
func (e *Error) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// wrapText breaks text on spaces into lines of at most width bytes. A word
// longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := []string{words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, w)
			continue
		}
		*last += " " + w
	}
	return lines
}

// Fprint writes err to w. A structured error anywhere in the chain is
// rendered with Format.
func Fprint(w io.Writer, err error) {
	var we *Error
	if errors.As(err, &we) {
		io.WriteString(w, we.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(roleHeader, "ERROR:"), err)
}
