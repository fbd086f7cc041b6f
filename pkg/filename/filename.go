// Package filename derives filesystem-safe note filenames from task titles.
package filename

import (
	"strings"
	"unicode"
)

// Extension is the fixed suffix appended to every note filename.
const Extension = ".md"

// maxBaseLength caps the sanitized base name, in bytes, before the extension.
const maxBaseLength = 150

// Sanitize maps a task title to a note filename. It is a pure function of the
// title: the same title always yields the same filename.
func Sanitize(title string) string {
	return SanitizeBase(title) + Extension
}

// SanitizeBase maps a title to a safe name without the note extension.
// Every rune outside {letters, digits, '.', '_', '-'} is replaced with a
// single '_' in place; nothing is collapsed or stripped, so the substitution
// preserves character positions. Dots pass through verbatim wherever they
// occur.
func SanitizeBase(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	n := 0
	for _, r := range title {
		size := 1
		if safe(r) {
			size = len(string(r))
		}
		if n+size > maxBaseLength {
			break
		}
		n += size
		if safe(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func safe(r rune) bool {
	switch r {
	case '.', '_', '-':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
