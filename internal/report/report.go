// Package report summarizes a snapshot into the dashboard's key insights and
// renders them as Markdown.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"globalsouth/internal/dataset"
)

// Insights are the summary figures shown on the dashboard.
type Insights struct {
	FirstYear, LastYear int
	StartShare          float64
	CurrentShare        float64
	Growth              float64 // percentage points
	MinShare, MaxShare  float64
	LeadingRegion       dataset.Region
	RegionTotals        map[dataset.Region]float64
	Regions             []dataset.Region
	Records             []dataset.Record
	Warnings            []string
	GeneratedAt         time.Time
}

// Build computes the insights for the selected regions.
func Build(snap *dataset.Snapshot, regions []dataset.Region) Insights {
	d := snap.Data
	in := Insights{
		Regions:     regions,
		Records:     d.Records,
		GeneratedAt: time.Now(),
	}

	in.FirstYear, in.LastYear, _ = dataset.YearRange(d)
	in.StartShare, in.CurrentShare, _ = dataset.Endpoints(d, dataset.Share)
	in.Growth = in.CurrentShare - in.StartShare
	in.MinShare, in.MaxShare, _ = dataset.Extrema(d, dataset.Share)
	in.LeadingRegion, _ = dataset.LeadingRegion(d, regions)
	in.RegionTotals = dataset.RegionTotals(d, regions)

	for _, w := range snap.Warnings {
		in.Warnings = append(in.Warnings, w.String())
	}
	return in
}

// WriteMarkdown renders the insights report.
func WriteMarkdown(w io.Writer, in Insights) error {
	var b strings.Builder

	b.WriteString("# Global South GDP share\n\n")
	b.WriteString("### 📊 Summary\n\n")
	fmt.Fprintf(&b, "- **Starting share (%d)**: %.2f%%\n", in.FirstYear, in.StartShare)
	fmt.Fprintf(&b, "- **Current share (%d)**: %.2f%%\n", in.LastYear, in.CurrentShare)
	fmt.Fprintf(&b, "- **Change**: %+.2f points\n", in.Growth)
	fmt.Fprintf(&b, "- **Lowest / highest**: %.2f%% / %.2f%%\n", in.MinShare, in.MaxShare)
	if in.LeadingRegion != "" {
		fmt.Fprintf(&b, "- **Leading region**: %s\n", in.LeadingRegion)
	}

	if len(in.Warnings) > 0 {
		b.WriteString("\n### ⚠️ Data warnings\n\n")
		for _, warning := range in.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	b.WriteString("\n### 🌍 Key insights\n\n")
	fmt.Fprintf(&b, "Over the period the Global South share of world GDP went from %.2f%% to %.2f%%, "+
		"reflecting a shift in the global economic balance.\n\n", in.StartShare, in.CurrentShare)
	if in.LeadingRegion != "" {
		fmt.Fprintf(&b, "%s contributed the most and is the main driver of Global South growth.\n\n", in.LeadingRegion)
	}

	if len(in.Regions) > 0 {
		b.WriteString("| Region | Total contribution |\n|--------|--------------------|\n")
		for _, r := range in.Regions {
			fmt.Fprintf(&b, "| %s | %.2f |\n", r, in.RegionTotals[r])
		}
		b.WriteString("\n")
	}

	b.WriteString("### 📋 Data by year\n\n| Year | Share (%) |")
	for _, r := range in.Regions {
		fmt.Fprintf(&b, " %s (%%) |", r)
	}
	b.WriteString("\n|------|-----------|")
	for range in.Regions {
		b.WriteString("------|")
	}
	b.WriteString("\n")
	for _, rec := range in.Records {
		fmt.Fprintf(&b, "| %d | %s |", rec.Year, formatValue(rec.Share))
		for _, r := range in.Regions {
			fmt.Fprintf(&b, " %s |", formatValue(dataset.Contribution(r)(rec)))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n---\n*Generated %s*\n", in.GeneratedAt.Format("2 January 2006"))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	return fmt.Sprintf("%.2f", v)
}
