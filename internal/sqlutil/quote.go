// Package sqlutil provides identifier quoting and statement building for the
// destination SQL dialects.
package sqlutil

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects the quoting and placeholder rules of a destination database.
type Dialect int

const (
	// MySQL quotes identifiers with backticks and binds with "?".
	MySQL Dialect = iota
	// Postgres quotes identifiers with double quotes and binds with "$n".
	Postgres
)

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return MySQL, fmt.Errorf("unsupported driver %q", driver)
	}
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// QuoteIdentifier quotes a table or column name, doubling any embedded
// quote character.
// Example: MySQL "Order" -> "`Order`", Postgres "Order" -> "\"Order\""
func (d Dialect) QuoteIdentifier(name string) string {
	if d == Postgres {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return QuoteIdentifier(name)
}

// Placeholder returns the bind marker for the i-th argument (1-based).
func (d Dialect) Placeholder(i int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// Placeholders returns n comma-separated bind markers.
func (d Dialect) Placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.Placeholder(i + 1)
	}
	return strings.Join(marks, ", ")
}

// InsertStatement builds a single-row INSERT for table and columns.
// Example: INSERT INTO `Categories` (`Id`, `Name`) VALUES (?, ?)
func (d Dialect) InsertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		d.Placeholders(len(columns)),
	)
}

// DeleteStatement builds a DELETE that clears table.
func (d Dialect) DeleteStatement(table string) string {
	return "DELETE FROM " + d.QuoteIdentifier(table)
}

// CountStatement builds a row count query for table.
func (d Dialect) CountStatement(table string) string {
	return "SELECT COUNT(*) FROM " + d.QuoteIdentifier(table)
}

// ForeignKeyChecks returns the session statement toggling foreign key
// enforcement, or "" when the dialect has no such switch.
func (d Dialect) ForeignKeyChecks(enabled bool) string {
	if d != MySQL {
		return ""
	}
	if enabled {
		return "SET FOREIGN_KEY_CHECKS = 1"
	}
	return "SET FOREIGN_KEY_CHECKS = 0"
}

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// embedded backtick.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// validIdentifierRegex restricts destination names to letters, digits and
// underscores.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name only contains alphanumeric characters
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes name for d after validating it.
func (d Dialect) QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return d.QuoteIdentifier(name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
