package dataset

// Validate checks that every required column is present. A missing column is
// fatal and all of them are reported together; missing cells in a present
// column only produce a warning.
func Validate(t *Table, s Schema) ([]MissingValueWarning, error) {
	required := s.Required()

	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Required: required}
	}

	var warnings []MissingValueWarning
	for _, col := range required {
		cells, _ := t.Column(col)
		var rows []int
		for i, cell := range cells {
			if IsMissing(cell) {
				rows = append(rows, i+1)
			}
		}
		if len(rows) > 0 {
			warnings = append(warnings, MissingValueWarning{Column: col, Rows: rows})
		}
	}

	return warnings, nil
}

// EnsureColors returns a copy of t with a constant colour column appended for
// every region whose colour column is absent. Applying it twice changes
// nothing further.
func EnsureColors(t *Table, s Schema) *Table {
	out := t.Clone()
	for _, rc := range s.Regions {
		if rc.Color == "" || out.HasColumn(rc.Color) {
			continue
		}
		out.withConstant(rc.Color, rc.DefaultColor)
	}
	return out
}
