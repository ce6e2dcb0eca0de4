package dataset

import (
	"errors"
	"fmt"
)

var ErrColumnNotFound = errors.New("column not found")

// Column is a single named numeric field. Missing marks cells that held
// no parseable value in the source table; Values at those positions are
// undefined.
type Column struct {
	Name    string
	Values  []float64
	Missing []bool
}

// Table is a read-only, column-oriented view of one study cohort. Rows
// are units (patient-stays); all columns have equal length.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) AddColumn(name string, values []float64, missing []bool) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(t.columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", name, len(values), t.rows)
	}
	if missing == nil {
		missing = make([]bool, len(values))
	}
	if len(missing) != len(values) {
		return fmt.Errorf("column %q: %d values but %d missing flags", name, len(values), len(missing))
	}
	if len(t.columns) == 0 {
		t.rows = len(values)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, Column{Name: name, Values: values, Missing: missing})
	return nil
}

func (t *Table) NumRows() int {
	return t.rows
}

func (t *Table) NumColumns() int {
	return len(t.columns)
}

func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.columns[idx], true
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}
