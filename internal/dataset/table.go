package dataset

// Table is the file as read: a header row plus string cells, every data row
// padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Index(name)
	return ok
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.Index(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// withConstant appends a column holding value on every row. t is modified.
func (t *Table) withConstant(name, value string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// Records returns header and rows as one slice, the shape encoding/csv writes.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	out = append(out, t.Rows...)
	return out
}

// naValues are the cell spellings treated as missing, matching what pandas
// reads as NaN by default.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a cell counts as a missing value. Matching is
// exact: " NA" is not missing.
func IsMissing(cell string) bool {
	return naValues[cell]
}
