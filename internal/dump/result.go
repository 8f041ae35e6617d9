package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/elliotchance/orderedmap/v2"
)

// Stats counts what happened to the statements of one scan.
type Stats struct {
	Lines        int            // physical lines read
	Statements   int            // INSERT statements whose tuple closed
	Failed       map[Entity]int // tuples that could not be coerced, per entity
	Unknown      int            // statements for tables outside the known set
	Malformed    int            // closed statements without a VALUES (...) tuple
	Unterminated int            // statements still open at end of input or at the next INSERT
}

// FailedTotal returns the number of coercion failures across entities.
func (s Stats) FailedTotal() int {
	total := 0
	for _, n := range s.Failed {
		total += n
	}
	return total
}

// Result holds the records of a scan grouped by entity. Every known entity
// is present, in Entities order, even when it has no records. Records keep
// the order of their statements in the dump.
type Result struct {
	records *orderedmap.OrderedMap[Entity, []Record]
	Stats   Stats
}

// NewResult returns an empty Result with all nine entities present.
func NewResult() *Result {
	m := orderedmap.NewOrderedMap[Entity, []Record]()
	for _, e := range Entities {
		m.Set(e, []Record{})
	}
	return &Result{
		records: m,
		Stats:   Stats{Failed: make(map[Entity]int)},
	}
}

// Add appends rec to its entity's collection.
func (r *Result) Add(rec Record) {
	e := rec.Entity()
	list, ok := r.records.Get(e)
	if !ok {
		return
	}
	r.records.Set(e, append(list, rec))
}

// Records returns the records of entity e in source order.
func (r *Result) Records(e Entity) []Record {
	list, _ := r.records.Get(e)
	return list
}

// Count returns the number of records of entity e.
func (r *Result) Count(e Entity) int {
	return len(r.Records(e))
}

// Total returns the number of records across all entities.
func (r *Result) Total() int {
	total := 0
	for el := r.records.Front(); el != nil; el = el.Next() {
		total += len(el.Value)
	}
	return total
}

// Entities returns the entity keys in output order.
func (r *Result) Entities() []Entity {
	return r.records.Keys()
}

// RecordsOf returns the records of entity e as their concrete type.
func RecordsOf[T Record](r *Result, e Entity) []T {
	list := r.Records(e)
	out := make([]T, 0, len(list))
	for _, rec := range list {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// MarshalJSON encodes the result as one object with the nine entity keys in
// fixed order, each holding an array. HTML characters are not escaped so
// URLs survive verbatim.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	first := true
	for el := r.records.Front(); el != nil; el = el.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := enc.Encode(string(el.Key)); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(el.Value); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", el.Key, err)
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Compact(&out, buf.Bytes()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON. Missing entity
// keys decode as empty collections; unknown keys are an error.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fresh := NewResult()
	for key, msg := range raw {
		e, err := ParseEntity(key)
		if err != nil {
			return err
		}
		list, err := decodeRecords(e, msg)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		fresh.records.Set(e, list)
	}

	r.records = fresh.records
	r.Stats = fresh.Stats
	return nil
}

func decodeRecords(e Entity, msg json.RawMessage) ([]Record, error) {
	switch e {
	case Categories:
		return decodeAs[Category](msg)
	case Subcategories:
		return decodeAs[Subcategory](msg)
	case Products:
		return decodeAs[Product](msg)
	case ProductImages:
		return decodeAs[ProductImage](msg)
	case Clients:
		return decodeAs[Client](msg)
	case Employees:
		return decodeAs[Employee](msg)
	case CompanySettings:
		return decodeAs[CompanySetting](msg)
	case Sales:
		return decodeAs[Sale](msg)
	case SaleDetails:
		return decodeAs[SaleDetail](msg)
	}
	return nil, fmt.Errorf("unknown entity %q", e)
}

func decodeAs[T Record](msg json.RawMessage) ([]Record, error) {
	var typed []T
	if err := json.Unmarshal(msg, &typed); err != nil {
		return nil, err
	}
	list := make([]Record, 0, len(typed))
	for _, v := range typed {
		list = append(list, v)
	}
	return list, nil
}

// WriteJSON writes the result to w, indented by indent spaces (0 for compact).
func (r *Result) WriteJSON(w io.Writer, indent int) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}

	if indent > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", spaces(indent)); err != nil {
			return err
		}
		data = out.Bytes()
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}

// WriteFile writes the result as JSON to path, creating parent directories.
func (r *Result) WriteFile(path string, indent int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := r.WriteJSON(f, indent); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ReadJSON decodes a result written by WriteJSON.
func ReadJSON(rd io.Reader) (*Result, error) {
	r := NewResult()
	if err := json.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return r, nil
}

// ReadFile decodes the JSON result stored at path.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadJSON(f)
}

func spaces(n int) string {
	return string(bytes.Repeat([]byte{' '}, n))
}
