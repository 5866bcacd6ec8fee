package ml

import "fmt"

// Table is a column-oriented batch of numeric measurements. Cells are nullable
// so that sparse uploads survive until the preprocessor fills them.
type Table struct {
	nRows   int
	columns []string
	data    map[string][]*float64
}

func NewTable(nRows int) *Table {
	return &Table{
		nRows: nRows,
		data:  make(map[string][]*float64),
	}
}

func (t *Table) NumRows() int {
	return t.nRows
}

func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

func (t *Table) Column(name string) []*float64 {
	return t.data[name]
}

func (t *Table) SetColumn(name string, values []*float64) error {
	if len(values) != t.nRows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.nRows)
	}
	if _, exists := t.data[name]; !exists {
		t.columns = append(t.columns, name)
	}
	t.data[name] = values
	return nil
}

// NonNullCount returns how many cells in the column hold a value. A column
// that is absent entirely counts as zero.
func (t *Table) NonNullCount(name string) int {
	n := 0
	for _, v := range t.data[name] {
		if v != nil {
			n++
		}
	}
	return n
}

// FeatureMatrix is a dense, fully filled feature batch in model column order.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float32
}
