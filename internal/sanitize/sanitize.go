// Package sanitize strips terminal escape sequences from model output.
// Models occasionally decorate a command with color codes, either as real
// control characters or spelled out as literal text like `\033[1;32m`.
package sanitize

import "regexp"

var (
	// Actual ESC control character followed by a CSI sequence.
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

	// The same sequences written out literally, in the spellings models
	// tend to produce: \033[...m, \e[...m, \x1b[...m, [...m.
	literalEscape = regexp.MustCompile(`\\(?:033|e|x1[bB]|u001[bB])\[[0-9;?]*[a-zA-Z]`)
)

// Strip removes ANSI color and cursor escape sequences, in both control
// character and literal-backslash form. It is idempotent and leaves all
// other content, including newlines and quoting, untouched.
//
// Replacement runs to a fixed point: removing a sequence nested inside
// another splices the surrounding text into a fresh sequence that only the
// next pass catches.
func Strip(text string) string {
	for {
		stripped := ansiEscape.ReplaceAllString(text, "")
		stripped = literalEscape.ReplaceAllString(stripped, "")
		if stripped == text {
			return stripped
		}
		text = stripped
	}
}
