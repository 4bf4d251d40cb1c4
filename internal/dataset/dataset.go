package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one year of the wide table. Missing values are NaN.
type Record struct {
	Year         int
	Share        float64
	Contribution map[Region]float64
}

// Dataset is the typed view of a validated table, rows in file order.
type Dataset struct {
	Records []Record
	Colors  map[Region]string
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Color returns the display colour of r.
func (d *Dataset) Color(r Region) string {
	if c, ok := d.Colors[r]; ok && c != "" {
		return c
	}
	return DefaultColors[r]
}

// FromTable converts a validated, colour-enriched table. Rows with a missing
// year are left out; other missing cells become NaN.
func FromTable(path string, t *Table, s Schema) (*Dataset, error) {
	yearIdx, ok := t.Index(s.Year)
	if !ok {
		return nil, &SchemaError{Missing: []string{s.Year}, Required: s.Required()}
	}
	shareIdx, ok := t.Index(s.Share)
	if !ok {
		return nil, &SchemaError{Missing: []string{s.Share}, Required: s.Required()}
	}

	regionIdx := make(map[Region]int, len(s.Regions))
	for _, rc := range s.Regions {
		i, ok := t.Index(rc.Contribution)
		if !ok {
			return nil, &SchemaError{Missing: []string{rc.Contribution}, Required: s.Required()}
		}
		regionIdx[rc.Region] = i
	}

	d := &Dataset{Colors: make(map[Region]string, len(s.Regions))}
	for _, rc := range s.Regions {
		color := rc.DefaultColor
		if cells, ok := t.Column(rc.Color); ok && len(cells) > 0 && strings.TrimSpace(cells[0]) != "" {
			color = strings.TrimSpace(cells[0])
		}
		d.Colors[rc.Region] = color
	}

	for i, row := range t.Rows {
		if IsMissing(row[yearIdx]) {
			continue
		}
		year, err := parseYear(row[yearIdx])
		if err != nil {
			return nil, &LoadError{Kind: ParseError, Path: path, Err: fmt.Errorf("row %d, column %q: %w", i+1, s.Year, err)}
		}

		rec := Record{Year: year, Contribution: make(map[Region]float64, len(regionIdx))}
		if rec.Share, err = parseValue(row[shareIdx]); err != nil {
			return nil, &LoadError{Kind: ParseError, Path: path, Err: fmt.Errorf("row %d, column %q: %w", i+1, s.Share, err)}
		}
		for _, rc := range s.Regions {
			v, err := parseValue(row[regionIdx[rc.Region]])
			if err != nil {
				return nil, &LoadError{Kind: ParseError, Path: path, Err: fmt.Errorf("row %d, column %q: %w", i+1, rc.Contribution, err)}
			}
			rec.Contribution[rc.Region] = v
		}
		d.Records = append(d.Records, rec)
	}

	return d, nil
}

func parseYear(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if y, err := strconv.Atoi(cell); err == nil {
		return y, nil
	}
	// Spreadsheet round trips turn 2020 into 2020.0.
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid year %q", cell)
	}
	return int(f), nil
}

func parseValue(cell string) (float64, error) {
	if IsMissing(cell) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", cell)
	}
	return v, nil
}
