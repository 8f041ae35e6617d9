package dump

import (
	"strings"
)

// statement accumulates the physical lines of one INSERT and tracks,
// incrementally, where its VALUES keyword is and how many parentheses have
// opened and closed after it. Quoted literals and bracketed identifiers are
// skipped, so neither "VALUES" nor a parenthesis inside them counts.
type statement struct {
	entity    Entity
	startLine int
	mode      EscapeMode

	buf     strings.Builder
	scanned int // bytes of buf already lexed

	inQuote   bool
	inBracket bool
	prev      byte

	valuesAt int // offset of VALUES in buf, -1 until found
	open     int
	close    int
}

func newStatement(entity Entity, line string, lineNo int, mode EscapeMode) *statement {
	st := &statement{
		entity:    entity,
		startLine: lineNo,
		mode:      mode,
		valuesAt:  -1,
	}
	st.buf.WriteString(line)
	st.advance()
	return st
}

// appendLine joins a continuation line with a single space.
func (st *statement) appendLine(line string) {
	st.buf.WriteByte(' ')
	st.buf.WriteString(line)
	st.advance()
}

// advance lexes the bytes appended since the last call.
func (st *statement) advance() {
	s := st.buf.String()
	for i := st.scanned; i < len(s); i++ {
		c := s[i]
		switch {
		case st.inQuote:
			if c == '\'' && st.mode.togglesQuote(st.prev) {
				st.inQuote = false
			}
		case st.inBracket:
			if c == ']' {
				st.inBracket = false
			}
		case c == '\'' && st.mode.togglesQuote(st.prev):
			st.inQuote = true
		case c == '[':
			st.inBracket = true
		case st.valuesAt < 0:
			if isKeywordAt(s, i, "VALUES") {
				st.valuesAt = i
				i += len("VALUES") - 1
			}
		case c == '(':
			st.open++
		case c == ')':
			st.close++
		}
		st.prev = s[i]
	}
	st.scanned = len(s)
}

// closed reports whether the value tuple's parentheses have balanced.
func (st *statement) closed() bool {
	return st.valuesAt >= 0 && st.open > 0 && st.open == st.close
}

// tuple returns the text between the first parenthesis after VALUES and the
// last closing parenthesis of the statement. ok is false when something
// other than whitespace sits between VALUES and its parenthesis.
func (st *statement) tuple() (inner string, ok bool) {
	s := st.buf.String()
	rest := s[st.valuesAt+len("VALUES"):]
	trimmed := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(trimmed, "(") {
		return "", false
	}
	start := len(s) - len(trimmed) + 1
	end := strings.LastIndexByte(s, ')')
	if end < start {
		return "", false
	}
	return s[start:end], true
}

func (st *statement) text() string {
	return st.buf.String()
}

// isKeywordAt reports whether s holds keyword at i, case-insensitively and
// not embedded in a longer identifier.
func isKeywordAt(s string, i int, keyword string) bool {
	if len(s)-i < len(keyword) || !strings.EqualFold(s[i:i+len(keyword)], keyword) {
		return false
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return false
	}
	end := i + len(keyword)
	return end == len(s) || !isIdentByte(s[end])
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '@' || c == '#' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isInsertLine reports whether a trimmed line starts a new INSERT statement.
func isInsertLine(line string) bool {
	return strings.HasPrefix(strings.ToUpper(line), "INSERT ")
}

// targetIdentifier reads the table name of an INSERT line as identifier
// parts, so "INSERT INTO [dbo].[Categorias] (...)" yields ["dbo",
// "Categorias"]. Bracketed and bare parts are both accepted.
func targetIdentifier(line string) ([]string, bool) {
	rest := strings.TrimLeft(line[len("INSERT"):], " \t")
	if isKeywordAt(rest, 0, "INTO") {
		rest = strings.TrimLeft(rest[len("INTO"):], " \t")
	}

	var parts []string
	for {
		part, n, ok := readIdentPart(rest)
		if !ok {
			return nil, false
		}
		parts = append(parts, part)
		rest = rest[n:]
		if !strings.HasPrefix(rest, ".") {
			break
		}
		rest = rest[1:]
	}
	return parts, true
}

// readIdentPart reads one bracketed ([Name]) or bare (Name) identifier part
// and returns it with the number of bytes consumed.
func readIdentPart(s string) (string, int, bool) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 1 {
			return "", 0, false
		}
		return s[1:end], end + 1, true
	}

	n := 0
	for n < len(s) && isIdentByte(s[n]) {
		n++
	}
	if n == 0 {
		return "", 0, false
	}
	return s[:n], n, true
}

// classifier maps INSERT lines to entities for one schema.
type classifier struct {
	schema  string
	markers []string // markers in Entities order
	byTable map[string]Entity
}

func newClassifier(schema string) *classifier {
	c := &classifier{
		schema:  schema,
		byTable: make(map[string]Entity, len(Entities)),
	}
	for _, e := range Entities {
		c.markers = append(c.markers, e.Marker(schema))
		c.byTable[e.SourceTable()] = e
	}
	return c
}

// classify resolves the entity targeted by an INSERT line. The identifier
// is read first; a line whose identifier cannot be read falls back to a
// search for the known markers in order.
func (c *classifier) classify(line string) Entity {
	if parts, ok := targetIdentifier(line); ok {
		if len(parts) < 2 || parts[len(parts)-2] != c.schema {
			return Other
		}
		if e, found := c.byTable[parts[len(parts)-1]]; found {
			return e
		}
		return Other
	}

	for i, marker := range c.markers {
		if strings.Contains(line, marker) {
			return Entities[i]
		}
	}
	return Other
}
