// Package report prints the terminal summaries of the dumpmigrate commands.
//
// Columns are aligned by display width so accented table and entity names
// line up, and color is applied only after padding.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/graph"
	"github.com/dbsmedya/dumpmigrate/internal/importer"
	"github.com/dbsmedya/dumpmigrate/internal/verifier"
)

// Printer writes summaries to w.
type Printer struct {
	w     io.Writer
	color bool
}

// New creates a Printer. With colored false no escape codes are written.
func New(w io.Writer, colored bool) *Printer {
	return &Printer{w: w, color: colored}
}

func (p *Printer) paint(c color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Parse prints the per-entity record counts of a scan.
func (p *Printer) Parse(path string, r *dump.Result) {
	fmt.Fprintf(p.w, "Parsed %s\n\n", path)

	t := newTable("ENTITY", "SOURCE TABLE", "RECORDS", "FAILED")
	t.alignRight(2, 3)
	for _, e := range dump.Entities {
		failed := r.Stats.Failed[e]
		failedCell := cell{text: strconv.Itoa(failed)}
		if failed > 0 {
			failedCell.paint = color.Yellow
		}
		t.addRow(
			cell{text: string(e)},
			cell{text: e.SourceTable()},
			cell{text: strconv.Itoa(r.Count(e))},
			failedCell,
		)
	}
	t.render(p)

	s := r.Stats
	fmt.Fprintf(p.w, "\nRecords: %d  Lines: %d  Statements: %d  Unknown: %d  Malformed: %d  Unterminated: %d\n",
		r.Total(), s.Lines, s.Statements, s.Unknown, s.Malformed, s.Unterminated)
	if n := s.FailedTotal(); n > 0 {
		fmt.Fprintln(p.w, p.paint(color.Yellow, fmt.Sprintf("%d tuples could not be coerced", n)))
	}
}

// Import prints what an import wrote.
func (p *Printer) Import(stats *importer.Stats) {
	fmt.Fprintf(p.w, "Import %s\n\n", stats.RunID)

	t := newTable("ENTITY", "TABLE", "ROWS")
	t.alignRight(2)
	for _, e := range stats.Entities {
		t.addRow(
			cell{text: string(e)},
			cell{text: importer.TableName(e)},
			cell{text: strconv.FormatInt(stats.RowsPerEntity[e], 10)},
		)
	}
	t.render(p)

	fmt.Fprintf(p.w, "\nDeleted: %d  Inserted: %d  Duration: %s\n",
		stats.RowsDeleted, stats.RowsInserted, stats.Duration.Round(time.Millisecond))
	fmt.Fprintln(p.w, p.paint(color.Green, "Import committed"))
}

// Verify prints the per-table verification results.
func (p *Printer) Verify(stats *verifier.VerifyStats) {
	fmt.Fprintf(p.w, "Verification (%s)\n\n", stats.Method)

	t := newTable("ENTITY", "TABLE", "EXPECTED", "ACTUAL", "STATUS")
	t.alignRight(2, 3)
	for _, r := range stats.Results {
		expected := "-"
		if r.Expected >= 0 {
			expected = strconv.FormatInt(r.Expected, 10)
		}
		status := cell{text: "OK", paint: color.Green}
		if !r.Match {
			status = cell{text: "MISMATCH", paint: color.Red}
		}
		t.addRow(
			cell{text: string(r.Entity)},
			cell{text: r.Table},
			cell{text: expected},
			cell{text: strconv.FormatInt(r.Actual, 10)},
			status,
		)
	}
	t.render(p)

	fmt.Fprintf(p.w, "\nTables: %d  Passed: %d  Failed: %d  Rows: %d\n",
		stats.TablesVerified, stats.TablesPassed, stats.TablesFailed, stats.TotalRows)
	for _, r := range stats.Results {
		if !r.Match && r.ErrorMessage != "" {
			fmt.Fprintf(p.w, "  %s: %s\n", r.Table, p.paint(color.Red, r.ErrorMessage))
		}
	}
}

// Entities prints the known entities with their source and destination
// tables and the entities they reference.
func (p *Printer) Entities(schema string) {
	g := graph.Full()

	t := newTable("ENTITY", "SOURCE", "DESTINATION", "MIN VALUES", "DEPENDS ON")
	t.alignRight(3)
	for _, e := range dump.Entities {
		parents := g.GetParents(e)
		names := make([]string, len(parents))
		for i, parent := range parents {
			names[i] = string(parent)
		}
		t.addRow(
			cell{text: string(e)},
			cell{text: e.Marker(schema)},
			cell{text: importer.TableName(e)},
			cell{text: strconv.Itoa(e.MinTokens())},
			cell{text: strings.Join(names, ", ")},
		)
	}
	t.render(p)
}

type cell struct {
	text  string
	paint color.Color // zero means plain
}

type table struct {
	headers []string
	rows    [][]cell
	right   map[int]bool
}

func newTable(headers ...string) *table {
	return &table{headers: headers, right: make(map[int]bool)}
}

func (t *table) alignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

func (t *table) addRow(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c.text); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *table) pad(i int, s string, width int) string {
	if t.right[i] {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func (t *table) render(p *Printer) {
	widths := t.widths()

	parts := make([]string, len(t.headers))
	for i, h := range t.headers {
		parts[i] = p.paint(color.Bold, t.pad(i, h, widths[i]))
	}
	fmt.Fprintln(p.w, strings.TrimRight(strings.Join(parts, "  "), " "))

	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(p.w, strings.Join(parts, "  "))

	for _, row := range t.rows {
		for i, c := range row {
			text := t.pad(i, c.text, widths[i])
			if c.paint != 0 {
				text = p.paint(c.paint, text)
			}
			parts[i] = text
		}
		fmt.Fprintln(p.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}
