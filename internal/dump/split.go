package dump

import (
	"fmt"
	"strings"
)

// EscapeMode selects how a quote inside a string literal is escaped.
type EscapeMode int

const (
	// EscapeBackslash treats a quote preceded by a backslash as part of the
	// literal. Doubled quotes still split correctly because each quote
	// toggles the literal state, but they are kept doubled in values.
	EscapeBackslash EscapeMode = iota
	// EscapeSQL follows SQL quoting: a backslash has no special meaning and
	// a doubled quote inside a literal stands for one quote.
	EscapeSQL
)

// ParseEscapeMode converts the configuration value to an EscapeMode.
func ParseEscapeMode(s string) (EscapeMode, error) {
	switch s {
	case "backslash", "":
		return EscapeBackslash, nil
	case "sql":
		return EscapeSQL, nil
	default:
		return EscapeBackslash, fmt.Errorf("unknown escape mode %q", s)
	}
}

func (m EscapeMode) String() string {
	if m == EscapeSQL {
		return "sql"
	}
	return "backslash"
}

// togglesQuote reports whether a quote following prev opens or closes a literal.
func (m EscapeMode) togglesQuote(prev byte) bool {
	return m == EscapeSQL || prev != '\\'
}

// SplitValues splits the text between the outer parentheses of a value
// tuple into its top-level values. Commas inside string literals or nested
// parentheses (CAST(... AS decimal(10,2))) do not split. Tokens keep their
// source form, quotes included, and are trimmed of surrounding whitespace.
//
// The last token is always appended, so an empty tuple yields one empty
// token. An unterminated literal is accepted as is.
func SplitValues(s string, mode EscapeMode) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
		depth    int
		prev     byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '\'' && mode.togglesQuote(prev) {
			inQuotes = !inQuotes
		}
		if !inQuotes {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			}
		}

		if c == ',' && !inQuotes && depth == 0 {
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
			prev = 0
			continue
		}

		current.WriteByte(c)
		prev = c
	}

	return append(parts, strings.TrimSpace(current.String()))
}
