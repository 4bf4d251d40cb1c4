// Package export writes the loaded table as CSV or as an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"globalsouth/internal/dataset"
)

// Download file names offered by the dashboard.
const (
	CSVFileName  = "global_south_gdp_share.csv"
	XLSXFileName = "global_south_gdp_share.xlsx"
)

// Sheet names of the workbook.
const (
	DataSheet     = "Data"
	LongFormSheet = "Long Form"
	SummarySheet  = "Summary"
)

// WriteCSV writes every column of t unchanged, UTF-8 encoded with a byte
// order mark so spreadsheet tools pick the right encoding.
func WriteCSV(w io.Writer, t *dataset.Table) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return tw.Close()
}

// Options controls the extra workbook sheets.
type Options struct {
	Regions []dataset.Region
}

// WriteXLSX writes the snapshot as a workbook. The Data sheet holds every
// column of the table; Long Form and Summary are derived views.
func WriteXLSX(w io.Writer, snap *dataset.Snapshot, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E8B57"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeDataSheet(f, snap.Table, header); err != nil {
		return err
	}

	regions := opts.Regions
	if len(regions) == 0 {
		regions = dataset.Regions
	}
	if err := writeLongFormSheet(f, snap.Data, regions, header); err != nil {
		return err
	}
	if err := writeSummarySheet(f, snap, regions, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, t *dataset.Table, headerStyle int) error {
	for i, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(DataSheet, cell, h); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(DataSheet, col, col, 20)
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
	f.SetCellStyle(DataSheet, "A1", last, headerStyle)

	for r, row := range t.Rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(DataSheet, cell, cellValue(value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeLongFormSheet(f *excelize.File, d *dataset.Dataset, regions []dataset.Region, headerStyle int) error {
	if _, err := f.NewSheet(LongFormSheet); err != nil {
		return err
	}

	headers := []string{"Year", "Region", "Contribution (%)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(LongFormSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(LongFormSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(LongFormSheet, "A", "C", 18); err != nil {
		return err
	}

	for i, row := range dataset.MeltRegions(d, regions) {
		values := []interface{}{row.Year, string(row.Region), nil}
		if !math.IsNaN(row.Value) {
			values[2] = row.Value
		}
		for j, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(LongFormSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

type metric struct {
	name  string
	field dataset.Field
}

func writeSummarySheet(f *excelize.File, snap *dataset.Snapshot, regions []dataset.Region, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	d := snap.Data
	rows := [][]interface{}{
		{"Metric", "Min", "Max", "First", "Last"},
	}

	fields := []metric{{"Global South share (%)", dataset.Share}}
	for _, r := range regions {
		fields = append(fields, metric{string(r) + " contribution (%)", dataset.Contribution(r)})
	}

	for _, fd := range fields {
		row := []interface{}{fd.name}
		if lo, hi, ok := dataset.Extrema(d, fd.field); ok {
			row = append(row, lo, hi)
		} else {
			row = append(row, "", "")
		}
		if first, last, ok := dataset.Endpoints(d, fd.field); ok {
			row = append(row, first, last)
		} else {
			row = append(row, "", "")
		}
		rows = append(rows, row)
	}

	rows = append(rows, []interface{}{})
	if lo, hi, ok := dataset.YearRange(d); ok {
		rows = append(rows, []interface{}{"Years", lo, hi})
	}
	if region, ok := dataset.LeadingRegion(d, regions); ok {
		rows = append(rows, []interface{}{"Leading region", string(region)})
	}
	for _, w := range snap.Warnings {
		rows = append(rows, []interface{}{"Warning", w.String()})
	}

	for i, row := range rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(SummarySheet, cell, value); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "E1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 32); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "E", 14)
}

// cellValue stores numeric cells as numbers and everything else as text.
func cellValue(s string) interface{} {
	if dataset.IsMissing(s) {
		return s
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return v
	}
	return s
}
