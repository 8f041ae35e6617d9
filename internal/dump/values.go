package dump

import (
	"regexp"
	"strconv"
	"strings"
)

// nullToken is the dump's spelling of a missing value.
const nullToken = "NULL"

var (
	// castNumberPattern finds the number wrapped by CAST(<number> AS ...).
	castNumberPattern = regexp.MustCompile(`(?i)CAST\(\s*([\d.\-]+)\s+AS`)

	// castStringPattern unwraps CAST(N'...' AS Date), CAST('...' AS DateTime2(7)), etc.
	castStringPattern = regexp.MustCompile(`(?is)^CAST\(\s*N?'(.*)'\s+AS\s+[A-Za-z0-9_]+\s*(?:\(\s*[\d\s,]*\))?\s*\)$`)

	// nonNumeric matches every character dropped before a numeric parse.
	nonNumeric = regexp.MustCompile(`[^\d.\-]`)
)

// ParseInt parses a raw token as a base-10 integer.
func ParseInt(token string) (int, error) {
	return strconv.Atoi(token)
}

// ParseOptionalInt parses a raw token as an integer, mapping NULL to nil.
func ParseOptionalInt(token string) (*int, error) {
	if token == nullToken {
		return nil, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ParseBool reports whether a raw bit token is set. Only "1" is true.
func ParseBool(token string) bool {
	return token == "1"
}

// ExtractNumeric reads a decimal value from a raw token.
//
// A CAST(<number> AS <type>) wrapper yields its embedded number, so
// CAST(19.99 AS decimal(10,2)) is 19.99. Any other token is stripped of
// everything except digits, '.' and '-' before parsing. A token with no such
// characters (NULL included) is 0.
func ExtractNumeric(token string) (float64, error) {
	if m := castNumberPattern.FindStringSubmatch(token); m != nil {
		return strconv.ParseFloat(m[1], 64)
	}

	clean := nonNumeric.ReplaceAllString(token, "")
	if clean == "" {
		return 0, nil
	}
	return strconv.ParseFloat(clean, 64)
}

// CleanString converts a raw token to its string value. NULL yields nil.
//
// Date and time values wrapped as CAST(N'...' AS DateTime) are unwrapped to
// their literal. Otherwise the N prefix of a Unicode literal is dropped and
// surrounding quotes and spaces are trimmed. Under EscapeSQL doubled quotes
// are collapsed.
func CleanString(token string, mode EscapeMode) *string {
	if token == nullToken {
		return nil
	}

	var v string
	if m := castStringPattern.FindStringSubmatch(token); m != nil {
		v = m[1]
	} else {
		v = dequote(token, mode)
	}

	if mode == EscapeSQL {
		v = strings.ReplaceAll(v, "''", "'")
	}
	return &v
}

func dequote(token string, mode EscapeMode) string {
	v := strings.TrimSpace(token)
	if strings.HasPrefix(v, "N'") {
		v = v[1:]
	}

	if mode == EscapeSQL {
		if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
			return v[1 : len(v)-1]
		}
		return v
	}
	return strings.Trim(v, "' ")
}
