package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"globalsouth/internal/charts"
	"globalsouth/internal/dataset"
	"globalsouth/internal/export"
	"globalsouth/internal/report"
)

var (
	outDir     string
	outFile    string
	regionArgs []string
	chartYear  int
	chartSpeed int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the data as CSV (UTF-8 with BOM) and Excel",
	RunE:  runExport,
}

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the share line, regional animation and pie chart",
	RunE:  runCharts,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the Markdown insights report",
	RunE:  runReport,
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, chartsCmd} {
		c.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	}
	reportCmd.Flags().StringVarP(&outFile, "out", "o", "global_south_report.md", "output file, - for stdout")

	for _, c := range []*cobra.Command{exportCmd, chartsCmd, reportCmd} {
		c.Flags().StringSliceVarP(&regionArgs, "region", "r", nil, "regions to include (default all)")
	}
	chartsCmd.Flags().IntVar(&chartYear, "year", 0, "year for the pie chart (default latest)")
	chartsCmd.Flags().IntVar(&chartSpeed, "speed", 0, "animation speed in ms per frame")
}

func selectedRegions() ([]dataset.Region, error) {
	if len(regionArgs) == 0 {
		return dataset.Regions, nil
	}
	var regions []dataset.Region
	for _, arg := range regionArgs {
		r, ok := dataset.ParseRegion(arg)
		if !ok {
			return nil, fmt.Errorf("unknown region %q", arg)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func createFile(name string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

func runExport(cmd *cobra.Command, args []string) error {
	regions, err := selectedRegions()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	csvPath := filepath.Join(outDir, export.CSVFileName)
	if err := createFile(csvPath, func(f *os.File) error { return export.WriteCSV(f, snap.Table) }); err != nil {
		return err
	}
	xlsxPath := filepath.Join(outDir, export.XLSXFileName)
	if err := createFile(xlsxPath, func(f *os.File) error {
		return export.WriteXLSX(f, snap, export.Options{Regions: regions})
	}); err != nil {
		return err
	}

	fmt.Println("📁 Output files:")
	fmt.Printf("   - %s\n   - %s\n", csvPath, xlsxPath)
	return nil
}

func runCharts(cmd *cobra.Command, args []string) error {
	regions, err := selectedRegions()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	d := snap.Data

	_, maxYear, _ := dataset.YearRange(d)
	year := chartYear
	if year == 0 {
		year = maxYear
	}
	delay := time.Duration(cfg.Animation.ClampSpeed(chartSpeed)) * time.Millisecond

	line, err := charts.ShareLine(d, maxYear)
	if err != nil {
		return err
	}
	files := map[string]func(*os.File) error{
		"share.png": func(f *os.File) error { return charts.WritePNG(f, line, charts.LineSize) },
		"share.gif": func(f *os.File) error { return charts.ShareAnimation(f, d, delay, charts.LineSize) },
		"regions.gif": func(f *os.File) error {
			return charts.RegionAnimation(f, d, regions, delay, charts.BarSize)
		},
	}

	pie, err := charts.RegionPie(d, regions, year)
	switch {
	case errors.Is(err, dataset.ErrNoDataForYear):
		color.Yellow("⚠️  No data found for %d, pie chart skipped", year)
	case err != nil:
		return err
	default:
		files[fmt.Sprintf("pie_%d.png", year)] = func(f *os.File) error { return charts.WritePNG(f, pie, charts.PieSize) }
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("📈 Charts:")
	for _, name := range names {
		path := filepath.Join(outDir, name)
		if err := createFile(path, files[name]); err != nil {
			return err
		}
		fmt.Printf("   - %s\n", path)
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	regions, err := selectedRegions()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	in := report.Build(snap, regions)
	if outFile == "-" {
		return report.WriteMarkdown(cmd.OutOrStdout(), in)
	}
	if err := createFile(outFile, func(f *os.File) error { return report.WriteMarkdown(f, in) }); err != nil {
		return err
	}
	fmt.Printf("📋 Report written: %s\n", outFile)
	return nil
}
