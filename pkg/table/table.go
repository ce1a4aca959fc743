// pkg/table/table.go
package table

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the declared type of a column after inference.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumeric
	KindBoolean
	KindDatetime
	KindCategorical
	KindText
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindDatetime:
		return "datetime"
	case KindCategorical:
		return "categorical"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// IsTextual reports whether a column of this kind holds free-form string
// values (the columns text-oriented checks scan).
func (k Kind) IsTextual() bool {
	return k == KindText || k == KindCategorical || k == KindUnknown
}

// Column is an ordered sequence of cells sharing one name and declared kind.
// A nil cell is a null. Non-null cells hold string, float64, bool or
// time.Time values.
type Column struct {
	Name  string
	Kind  Kind
	Cells []any
}

// NonNullCount returns the number of non-null cells.
func (c *Column) NonNullCount() int {
	n := 0
	for _, v := range c.Cells {
		if !IsNull(v) {
			n++
		}
	}
	return n
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	return len(c.Cells) - c.NonNullCount()
}

// Dataset is an ordered sequence of equal-length named columns. Rows have no
// identity beyond position; removing rows re-indexes the remainder
// contiguously.
type Dataset struct {
	cols []*Column
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{}
}

// AddColumn appends a column, enforcing the equal-length and unique-name
// invariants.
func (d *Dataset) AddColumn(name string, kind Kind, cells []any) error {
	if name == "" {
		return errors.New("column name cannot be empty")
	}
	if d.Column(name) != nil {
		return fmt.Errorf("duplicate column name %q", name)
	}
	if len(d.cols) > 0 && len(cells) != d.RowCount() {
		return fmt.Errorf("column %q has %d cells, dataset has %d rows", name, len(cells), d.RowCount())
	}
	d.cols = append(d.cols, &Column{Name: name, Kind: kind, Cells: cells})
	return nil
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	if len(d.cols) == 0 {
		return 0
	}
	return len(d.cols[0].Cells)
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int {
	return len(d.cols)
}

// Columns returns the columns in order. The slice is shared; callers must not
// reorder it.
func (d *Dataset) Columns() []*Column {
	return d.cols
}

// Column returns the named column, or nil when absent.
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Clone returns a deep copy. The executor works on a clone so the caller's
// original is never mutated.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{cols: make([]*Column, len(d.cols))}
	for i, c := range d.cols {
		cells := make([]any, len(c.Cells))
		copy(cells, c.Cells)
		out.cols[i] = &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return out
}

// DropColumn removes the named column, reporting whether it existed.
func (d *Dataset) DropColumn(name string) bool {
	for i, c := range d.cols {
		if c.Name == name {
			d.cols = append(d.cols[:i], d.cols[i+1:]...)
			return true
		}
	}
	return false
}

// FilterRows keeps only the rows where keep[i] is true and returns the number
// of rows removed. keep must cover every row.
func (d *Dataset) FilterRows(keep []bool) (int, error) {
	if len(keep) != d.RowCount() {
		return 0, fmt.Errorf("keep mask has %d entries, dataset has %d rows", len(keep), d.RowCount())
	}
	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	for _, c := range d.cols {
		cells := make([]any, 0, len(c.Cells)-removed)
		for i, v := range c.Cells {
			if keep[i] {
				cells = append(cells, v)
			}
		}
		c.Cells = cells
	}
	return removed, nil
}

// RowKey builds a canonical string key for a row, used for exact-duplicate
// detection.
func (d *Dataset) RowKey(row int) string {
	var b strings.Builder
	for i, c := range d.cols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if IsNull(c.Cells[row]) {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(AsString(c.Cells[row]))
	}
	return b.String()
}

// DuplicateRowCount counts rows that are exact duplicates of an earlier row.
func (d *Dataset) DuplicateRowCount() int {
	seen := make(map[string]bool, d.RowCount())
	dups := 0
	for i := 0; i < d.RowCount(); i++ {
		key := d.RowKey(i)
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

// MissingCellCount counts null cells across all columns.
func (d *Dataset) MissingCellCount() int {
	total := 0
	for _, c := range d.cols {
		total += c.NullCount()
	}
	return total
}
